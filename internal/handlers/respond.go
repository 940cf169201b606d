package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"crm-backend/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// respondError writes {"error": message} and aborts the chain
func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondBindError reports a body that failed to decode or validate.
// Validation failures list every offending field and the rule it broke.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":  "Datos inválidos",
			"fields": fields,
		})
		return
	}
	respondError(c, http.StatusBadRequest, err.Error())
}

// respondStoreError maps gorm.ErrRecordNotFound to 404 and anything else to 500
func respondStoreError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, notFound)
		return
	}
	log.Printf("[handlers] %s %s: %v", c.Request.Method, c.FullPath(), err)
	respondError(c, http.StatusInternalServerError, "Error interno")
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

var registerFieldNames sync.Once

// useJSONFieldNames makes validation errors name fields by their json key
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// flexTime accepts RFC 3339 as well as the offset-less forms browsers send
// from datetime-local inputs. Values without an offset are read as UTC.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := scheduler.ParseWhen(s, time.UTC)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ptr returns a pointer to the wrapped time, or nil
func (t *flexTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}
