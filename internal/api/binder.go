package api

import (
	"errors"
	"io"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/elections/internal/pkg/constants"
)

// JSONSerializer plugs sonic into echo for request decoding and response encoding.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigDefault.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := sonic.ConfigDefault.NewDecoder(c.Request().Body).Decode(i)
	if errors.Is(err, io.EOF) {
		return constants.NewPayloadError("request body is empty")
	}
	if err != nil {
		return constants.NewPayloadError("malformed JSON body: %s", err.Error())
	}
	return nil
}

// Binder binds with echo's default rules, then validates the result.
type Binder struct {
	echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		var payloadErr *constants.PayloadError
		if errors.As(err, &payloadErr) {
			return payloadErr
		}
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return constants.NewPayloadError("%v", httpErr.Message)
		}
		return err
	}

	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(i)
}
