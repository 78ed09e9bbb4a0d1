package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bassista/go_jsonupdate/internal/app"
	"github.com/bassista/go_jsonupdate/internal/document"
	"github.com/bassista/go_jsonupdate/internal/jsonfile"
	"github.com/bassista/go_jsonupdate/internal/jsonupdate"
	"github.com/bassista/go_jsonupdate/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies for write endpoints.
const maxBodyBytes = 8 << 20

// KeyOperation is the body of POST /documents/*name.
type KeyOperation struct {
	Op    string          `json:"op" validate:"required,oneof=set unset"`
	Path  string          `json:"path" validate:"required"`
	Value json.RawMessage `json:"value"`
}

// DocumentController exposes the documents of the data directory.
// Every write is a single load-update-persist cycle run by the orchestrator.
type DocumentController struct {
	app       *app.App
	validator *validator.Validate
}

// NewDocumentController creates a new DocumentController.
func NewDocumentController(appCtx *app.App) *DocumentController {
	return &DocumentController{app: appCtx, validator: validator.New()}
}

// Get returns the parsed document.
func (dc *DocumentController) Get(c *gin.Context) {
	path, err := dc.app.ResolvePath(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}

	var doc any
	if dc.app.Cache != nil {
		doc, err = dc.app.Cache.Load(c.Request.Context(), path, dc.app.Updater)
	} else {
		doc, err = dc.app.Updater.Read(c.Request.Context(), path)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Patch applies the request body as a JSON merge patch.
// With ?create=true a missing or unreadable document starts out as {}.
func (dc *DocumentController) Patch(c *gin.Context) {
	patch, ok := readJSONBody(c)
	if !ok {
		return
	}
	dc.update(c, document.Merge(patch), dc.defaultFor(c))
}

// Put replaces the document with the request body, creating it when needed.
func (dc *DocumentController) Put(c *gin.Context) {
	value, ok := readJSONBody(c)
	if !ok {
		return
	}
	dc.update(c, document.Replace(value), jsonupdate.Literal[any](nil))
}

// Post sets or removes a single key path.
func (dc *DocumentController) Post(c *gin.Context) {
	var op KeyOperation
	if err := c.ShouldBindJSON(&op); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := dc.validator.Struct(op); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := document.SplitPath(op.Path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var fn jsonupdate.Updater[any]
	switch op.Op {
	case "set":
		var value any
		if len(op.Value) > 0 {
			if err := jsonfile.Decode(op.Value, &value); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid value"})
				return
			}
		}
		fn = document.Set(op.Path, value)
	case "unset":
		fn = document.Unset(op.Path)
	}
	dc.update(c, fn, dc.defaultFor(c))
}

func (dc *DocumentController) defaultFor(c *gin.Context) jsonupdate.Default[any] {
	create, _ := strconv.ParseBool(c.Query("create"))
	if create {
		return document.EmptyObject()
	}
	return nil
}

func (dc *DocumentController) update(c *gin.Context, fn jsonupdate.Updater[any], def jsonupdate.Default[any]) {
	path, err := dc.app.ResolvePath(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}

	var result any
	capture := func(ctx context.Context, doc any) (any, error) {
		out, err := fn(ctx, doc)
		result = out
		return out, err
	}

	opts := &jsonupdate.Options[any]{Default: def, Write: dc.app.WriteOptions()}
	err = dc.app.Updater.Update(c.Request.Context(), path, capture, opts)
	if dc.app.Cache != nil {
		dc.app.Cache.Invalidate(path)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func readJSONBody(c *gin.Context) (any, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return nil, false
	}
	var v any
	if err := jsonfile.Decode(data, &v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return nil, false
	}
	return v, true
}

// writeError maps orchestration failures to HTTP status codes.
func writeError(c *gin.Context, err error) {
	var (
		loadErr    *jsonupdate.LoadError
		defaultErr *jsonupdate.DefaultFactoryError
		updateErr  *jsonupdate.UpdateError
		persistErr *jsonupdate.PersistError
	)

	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, app.ErrInvalidName):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusGatewayTimeout, "request timeout"
	case errors.As(err, &loadErr) && jsonfile.IsNotExist(err):
		status, message = http.StatusNotFound, "document not found"
	case errors.As(err, &loadErr):
		status, message = http.StatusUnprocessableEntity, "document is not valid JSON"
	case errors.As(err, &defaultErr):
		message = "cannot build default document"
	case errors.As(err, &updateErr):
		status, message = http.StatusBadRequest, updateErr.Err.Error()
	case errors.As(err, &persistErr):
		message = "cannot write document"
	}

	if status >= http.StatusInternalServerError {
		logger.WithComponent("api").WithError(err).Errorf("%s %s failed", c.Request.Method, c.Request.URL.Path)
	}
	c.JSON(status, gin.H{"error": message})
}
