package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	submitFn  func(ctx context.Context, requesterID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	getAllFn  func(ctx context.Context, q leave.ListLeavesQuery) ([]leave.LeaveResponse, int64, error)
	getByIDFn func(ctx context.Context, id string) (leave.LeaveResponse, error)
	updateFn  func(ctx context.Context, actorID, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	cancelFn  func(ctx context.Context, actorID, id string) (leave.LeaveResponse, error)
	approveFn func(ctx context.Context, approverID, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error)
	rejectFn  func(ctx context.Context, approverID, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error)
	deleteFn  func(ctx context.Context, actorID, id string) error
}

func (f *fakeLeaveService) Submit(ctx context.Context, requesterID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, requesterID, req)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, q leave.ListLeavesQuery) ([]leave.LeaveResponse, int64, error) {
	return f.getAllFn(ctx, q)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveService) Update(ctx context.Context, actorID, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.updateFn(ctx, actorID, id, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, actorID, id string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, actorID, id)
}
func (f *fakeLeaveService) Approve(ctx context.Context, approverID, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, approverID, id, req)
}
func (f *fakeLeaveService) Reject(ctx context.Context, approverID, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, approverID, id, req)
}
func (f *fakeLeaveService) Delete(ctx context.Context, actorID, id string) error {
	return f.deleteFn(ctx, actorID, id)
}

func setupLeaveRouter(svc leave.Service, actorID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id_validated", actorID)
		c.Next()
	})

	handler := leave.NewHandler(svc)
	router.POST("/leaves", handler.Submit)
	router.GET("/leaves/:id", handler.GetById)
	router.POST("/leaves/:id/approve", handler.Approve)
	router.POST("/leaves/:id/cancel", handler.Cancel)
	return router
}

func TestLeaveHandler_Submit(t *testing.T) {
	actorID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, requesterID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, requesterID)
				assert.Equal(t, "ANNUAL", req.Category)
				return leave.LeaveResponse{
					ID:          uuid.NewString(),
					RequesterID: requesterID,
					Category:    req.Category,
					Amount:      "8.00",
					Status:      leave.StatusPending,
					ProofRefs:   []string{},
				}, nil
			},
		}
		router := setupLeaveRouter(svc, actorID)

		body := `{
			"category": "ANNUAL",
			"amount": "8.00",
			"start_date": "2026-09-07 09:00:00",
			"end_date": "2026-09-08 18:00:00",
			"reason": "family trip"
		}`
		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.True(t, env.Ok)

		var resp leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, leave.StatusPending, resp.Status)
	})

	t.Run("rejects unknown category at binding", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, requesterID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be called")
				return leave.LeaveResponse{}, nil
			},
		}
		router := setupLeaveRouter(svc, actorID)

		body := `{
			"category": "SABBATICAL",
			"amount": "8.00",
			"start_date": "2026-09-07",
			"end_date": "2026-09-08",
			"reason": "nope"
		}`
		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	actorID := uuid.NewString()
	leaveID := uuid.NewString()

	t.Run("conflict maps to 409", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, approverID, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrDecisionConflict
			},
		}
		router := setupLeaveRouter(svc, actorID)

		req := httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("passes the decision comment through", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, approverID, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, approverID)
				assert.Equal(t, leaveID, id)
				assert.NotNil(t, req.Comment)
				assert.Equal(t, "enjoy", *req.Comment)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved, ProofRefs: []string{}}, nil
			},
		}
		router := setupLeaveRouter(svc, actorID)

		req := httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", strings.NewReader(`{"comment":"enjoy"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	actorID := uuid.NewString()
	leaveID := uuid.NewString()

	t.Run("forbidden for non owner", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, aid, id string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotRequestOwner
			},
		}
		router := setupLeaveRouter(svc, actorID)

		req := httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/cancel", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestLeaveHandler_GetById(t *testing.T) {
	actorID := uuid.NewString()

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, id string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}
		router := setupLeaveRouter(svc, actorID)

		req := httptest.NewRequest(http.MethodGet, "/leaves/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec.Body.Bytes())
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
