package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/student-admin-console/internal/dto"
	"github.com/noah-isme/student-admin-console/internal/store"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
)

const (
	defaultHeartbeat = 25 * time.Second
	streamBuffer     = 4
)

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}

func idParam(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// validateForm runs struct validation and flattens field errors into one
// readable message.
func validateForm(v *validator.Validate, form interface{}) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalidPayload(err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, strings.Join(msgs, "; "))
}

// bindIDs accepts either a bare JSON array of ids or {"ids": [...]}.
func bindIDs(c *gin.Context, v *validator.Validate) ([]int64, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, invalidPayload(err)
	}
	raw = bytes.TrimSpace(raw)

	var req dto.AssociateRequest
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &req.IDs)
	} else {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return nil, invalidPayload(err)
	}
	if err := validateForm(v, req); err != nil {
		return nil, err
	}
	return req.IDs, nil
}

// streamCollection writes every republished collection as a server-sent
// "snapshot" event until the client goes away. A slow client only ever sees
// the newest collection.
func streamCollection[T any](c *gin.Context, subscribe func(store.Subscriber[T]) func(), heartbeat time.Duration) {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	updates := make(chan []T, streamBuffer)
	unsubscribe := subscribe(func(items []T) {
		for {
			select {
			case updates <- items:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case items := <-updates:
			c.SSEvent("snapshot", items)
		case now := <-ticker.C:
			c.SSEvent("ping", now.UTC().Format(time.RFC3339))
		}
		c.Writer.Flush()
	}
}
