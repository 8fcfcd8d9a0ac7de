package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// errorResponse is the JSON body of every non-2xx reply.
type errorResponse struct {
	Error string `json:"error"`
}

func getBoard(store types.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		boards, err := store.GetTable(types.BoardsTable)
		if err != nil {
			return fail(c, err)
		}
		got, err := boards.Get(c.Param("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, got.(*types.Board))
	}
}

func updateTask(store types.Store, logger log.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		boardID, taskID := c.Param("id"), c.Param("taskId")

		var patch types.TaskPatch
		if err := c.Bind(&patch); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if !patch.Status.Valid() {
			return fail(c, types.ErrInvalidStatus)
		}

		tasks, err := store.GetTable(types.TasksTable)
		if err != nil {
			return fail(c, err)
		}
		got, err := tasks.Get(taskID)
		if err != nil {
			return fail(c, err)
		}
		rec := got.(*types.TaskRecord)
		if rec.BoardID != boardID {
			return fail(c, types.ErrNotFound)
		}

		from := rec.Status
		rec.Status = patch.Status
		rec.Position = -1
		if _, err := tasks.Set(taskID, rec); err != nil {
			return fail(c, err)
		}

		logger.WithFields(log.Fields{
			"board": boardID,
			"task":  taskID,
			"from":  from,
			"to":    rec.Status,
		}).Info("task status updated")
		return c.JSON(http.StatusOK, rec.Task)
	}
}

// fail maps storage errors onto HTTP status codes.
func fail(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrInvalidID):
		code = http.StatusNotFound
	case errors.Is(err, types.ErrInvalidStatus), errors.Is(err, types.ErrInvalidData):
		code = http.StatusBadRequest
	case errors.Is(err, types.ErrStoreDetached):
		code = http.StatusServiceUnavailable
	}
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(code, errorResponse{Error: err.Error()})
}
