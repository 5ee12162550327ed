package storageerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrFileNotFound = apperror.New(
		apperror.CodeNotFound,
		"file not found",
		http.StatusNotFound,
	)
	ErrNoFileUploaded = apperror.New(
		apperror.CodeInvalidInput,
		"no file to upload",
		http.StatusBadRequest,
	)
	ErrInvalidFileID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid file id",
		http.StatusBadRequest,
	)
	ErrFileStillLinked = apperror.New(
		apperror.CodeConflict,
		"file is attached to a leave request",
		http.StatusConflict,
	)
)
