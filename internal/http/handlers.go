package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ochronus/xfrtuc/internal/app"
	"github.com/ochronus/xfrtuc/internal/store"
	"github.com/sirupsen/logrus"
)

// APIError is the JSON body returned with every non-2xx JSON response.
type APIError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Handler implements the fake transferatu API on top of the store.
type Handler struct {
	store  *store.Store
	logger *logrus.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(container *app.Container) *Handler {
	return &Handler{
		store:  container.Store,
		logger: container.Logger,
	}
}

// createGroupRequest is the body accepted by POST /groups.
type createGroupRequest struct {
	Name        string  `json:"name"`
	LogInputURL *string `json:"log_input_url"`
}

// verboseTransfer is a transfer with its log lines attached.
type verboseTransfer struct {
	store.Transfer
	Logs []string `json:"logs"`
}

// Dispatch classifies the request path and hands it to the matching
// resource handler.
func (h *Handler) Dispatch(c *gin.Context) {
	m, ok := matchRoute(c.Request.URL.EscapedPath())
	if !ok {
		h.NotFound(c)
		return
	}

	switch m.Resource {
	case resourceTransfers:
		h.transfers(c, m)
	case resourceSchedules:
		h.schedules(c, m)
	case resourceGroups:
		h.groups(c, m)
	}
}

// NotFound answers paths no route claims.
func (h *Handler) NotFound(c *gin.Context) {
	h.fail(c, http.StatusNotFound, "not_found", fmt.Sprintf("no route for %s", c.Request.URL.Path))
}

func (h *Handler) groups(c *gin.Context, m match) {
	switch c.Request.Method {
	case http.MethodGet:
		if m.IsItem() {
			h.getGroup(c, m.Group)
		} else {
			h.listGroups(c)
		}
	case http.MethodPost:
		if m.IsItem() {
			h.methodNotAllowed(c)
			return
		}
		h.addGroup(c)
	case http.MethodDelete:
		if !m.IsItem() {
			h.fail(c, http.StatusNotFound, "not_found", "group name is required")
			return
		}
		h.deleteGroup(c, m.Group)
	default:
		h.methodNotAllowed(c)
	}
}

func (h *Handler) transfers(c *gin.Context, m match) {
	switch c.Request.Method {
	case http.MethodGet:
		if m.IsItem() {
			h.getTransfer(c, m.Group, m.ID, c.Query("verbose") == "true")
		} else {
			h.listTransfers(c, m.Group)
		}
	case http.MethodPost:
		if m.IsItem() {
			h.methodNotAllowed(c)
			return
		}
		h.addTransfer(c, m.Group)
	case http.MethodDelete:
		if !m.IsItem() {
			h.fail(c, http.StatusNotFound, "not_found", "transfer id is required")
			return
		}
		h.deleteTransfer(c, m.Group, m.ID)
	default:
		h.methodNotAllowed(c)
	}
}

func (h *Handler) schedules(c *gin.Context, m match) {
	switch c.Request.Method {
	case http.MethodGet:
		if m.IsItem() {
			h.getSchedule(c, m.Group, m.ID)
		} else {
			h.listSchedules(c, m.Group)
		}
	case http.MethodPost:
		if m.IsItem() {
			h.methodNotAllowed(c)
			return
		}
		h.addSchedule(c, m.Group)
	case http.MethodDelete:
		if !m.IsItem() {
			h.fail(c, http.StatusNotFound, "not_found", "schedule id is required")
			return
		}
		h.deleteSchedule(c, m.Group, m.ID)
	default:
		h.methodNotAllowed(c)
	}
}

func (h *Handler) addGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Name == "" {
		h.fail(c, http.StatusBadRequest, "bad_request", "name is required")
		return
	}

	group, revived, err := h.store.AddGroup(req.Name, req.LogInputURL)
	if errors.Is(err, store.ErrConflict) {
		h.fail(c, http.StatusConflict, "conflict", fmt.Sprintf("group %s already exists", req.Name))
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{"group": group.Name, "revived": revived}).Debug("group created")
	c.JSON(http.StatusCreated, group)
}

func (h *Handler) listGroups(c *gin.Context) {
	groups, err := h.store.ListGroups()
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// getGroup answers 200 with a null body for unknown groups, as the real
// service did.
func (h *Handler) getGroup(c *gin.Context, name string) {
	group, ok := h.store.GetGroup(name)
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *Handler) deleteGroup(c *gin.Context, name string) {
	group, err := h.store.DeleteGroup(name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(c, http.StatusNotFound, "not_found", fmt.Sprintf("group %s not found", name))
	case errors.Is(err, store.ErrGone):
		h.fail(c, http.StatusGone, "gone", fmt.Sprintf("group %s is deleted", name))
	case err != nil:
		h.internalError(c, err)
	default:
		h.logger.WithField("group", name).Debug("group deleted")
		c.JSON(http.StatusOK, group)
	}
}

func (h *Handler) addTransfer(c *gin.Context, group string) {
	var in store.TransferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	xfer, err := h.store.AddTransfer(group, in)
	if err != nil {
		h.storeError(c, err, http.StatusGone)
		return
	}

	h.logger.WithFields(logrus.Fields{"group": group, "id": xfer.UUID}).Debug("transfer created")
	c.JSON(http.StatusCreated, xfer)
}

func (h *Handler) listTransfers(c *gin.Context, group string) {
	transfers, err := h.store.ListTransfers(group)
	if err != nil {
		h.storeError(c, err, http.StatusGone)
		return
	}
	c.JSON(http.StatusOK, transfers)
}

// getTransfer answers 409, not 410, for a deleted group. Clients written
// against the real service depend on that.
func (h *Handler) getTransfer(c *gin.Context, group, id string, verbose bool) {
	xfer, err := h.store.GetTransfer(group, id)
	if err != nil {
		h.storeError(c, err, http.StatusConflict)
		return
	}

	if verbose {
		c.JSON(http.StatusOK, verboseTransfer{Transfer: xfer, Logs: []string{}})
		return
	}
	c.JSON(http.StatusOK, xfer)
}

func (h *Handler) deleteTransfer(c *gin.Context, group, id string) {
	xfer, err := h.store.DeleteTransfer(group, id)
	if err != nil {
		h.storeError(c, err, http.StatusGone)
		return
	}

	h.logger.WithFields(logrus.Fields{"group": group, "id": id}).Debug("transfer deleted")
	c.JSON(http.StatusOK, xfer)
}

func (h *Handler) addSchedule(c *gin.Context, group string) {
	var in store.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	sched, err := h.store.AddSchedule(group, in)
	if err != nil {
		h.storeError(c, err, http.StatusGone)
		return
	}

	h.logger.WithFields(logrus.Fields{"group": group, "id": sched.UUID}).Debug("schedule created")
	c.JSON(http.StatusCreated, sched)
}

func (h *Handler) listSchedules(c *gin.Context, group string) {
	schedules, err := h.store.ListSchedules(group)
	if err != nil {
		h.storeError(c, err, http.StatusGone)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (h *Handler) getSchedule(c *gin.Context, group, id string) {
	sched, err := h.store.GetSchedule(group, id)
	if err != nil {
		h.storeError(c, err, http.StatusGone)
		return
	}
	c.JSON(http.StatusOK, sched)
}

func (h *Handler) deleteSchedule(c *gin.Context, group, id string) {
	sched, err := h.store.DeleteSchedule(group, id)
	if err != nil {
		h.storeError(c, err, http.StatusGone)
		return
	}

	h.logger.WithFields(logrus.Fields{"group": group, "id": id}).Debug("schedule deleted")
	c.JSON(http.StatusOK, sched)
}

// storeError maps store sentinel errors to responses. goneStatus is the
// status used when the owning group is soft-deleted.
func (h *Handler) storeError(c *gin.Context, err error, goneStatus int) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, store.ErrGone):
		id := "gone"
		if goneStatus == http.StatusConflict {
			id = "conflict"
		}
		h.fail(c, goneStatus, id, err.Error())
	default:
		h.internalError(c, err)
	}
}

func (h *Handler) methodNotAllowed(c *gin.Context) {
	h.fail(c, http.StatusMethodNotAllowed, "method_not_allowed",
		fmt.Sprintf("%s is not supported on %s", c.Request.Method, c.Request.URL.Path))
}

func (h *Handler) internalError(c *gin.Context, err error) {
	h.logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	h.fail(c, http.StatusInternalServerError, "internal_error", err.Error())
}

func (h *Handler) fail(c *gin.Context, status int, id, message string) {
	c.JSON(status, APIError{ID: id, Message: message})
}
