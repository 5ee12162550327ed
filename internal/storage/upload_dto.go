package storage

type FileResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	FileName       string  `json:"file_name,omitempty"`
	ExtName        string  `json:"ext_name,omitempty"`
	Path           string  `json:"path"`
	Type           string  `json:"type,omitempty"`
	Size           string  `json:"size,omitempty"`
	UserID         *string `json:"user_id,omitempty"`
	LeaveRequestID *string `json:"leave_request_id,omitempty"`
}

func mapToFileResponse(f StorageFile) FileResponse {
	resp := FileResponse{
		ID:       f.ID.String(),
		Name:     f.Name,
		FileName: f.FileName,
		ExtName:  f.ExtName,
		Path:     f.Path,
		Type:     f.Type,
		Size:     f.Size,
	}
	if f.UserID != nil {
		v := f.UserID.String()
		resp.UserID = &v
	}
	if f.LeaveRequestID != nil {
		v := f.LeaveRequestID.String()
		resp.LeaveRequestID = &v
	}
	return resp
}
