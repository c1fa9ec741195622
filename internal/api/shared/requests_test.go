package shared

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age"  validate:"gte=18"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		wantErr     error
		errContains string
	}{
		{name: "valid json", requestBody: `{"name": "test", "age": 30}`},
		{name: "invalid json", requestBody: `{"name": "test", "age": 30,}`, errContains: "invalid character"},
		{name: "empty body", requestBody: "", wantErr: ErrEmptyBody},
		{name: "unknown field", requestBody: `{"name": "test", "nickname": "t"}`, errContains: "unknown field"},
		{name: "trailing data", requestBody: `{"name": "test"} {"name": "again"}`, errContains: "after JSON body"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tc.requestBody))
			w := httptest.NewRecorder()

			var target sample
			err := DecodeJSON(w, req, &target)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
			default:
				require.NoError(t, err)
				assert.Equal(t, "test", target.Name)
				assert.Equal(t, 30, target.Age)
			}
		})
	}
}

// Mock for http.Request that will return a read error
type errorReader struct{}

func (er errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", errorReader{})

	var target struct{}
	err := DecodeJSON(httptest.NewRecorder(), req, &target)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestDecodeJSONBodyLimit(t *testing.T) {
	body := `{"name": "` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))

	var target sample
	err := DecodeJSON(httptest.NewRecorder(), req, &target)

	require.Error(t, err)
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, err, &maxErr)
}

type selfValidating struct {
	Name string
}

func (v *selfValidating) Validate() error {
	if v.Name == "invalid" {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr bool
	}{
		{name: "valid struct", req: &sample{Name: "test", Age: 20}},
		{name: "missing required", req: &sample{Age: 20}, wantErr: true},
		{name: "too young", req: &sample{Name: "test", Age: 3}, wantErr: true},
		{name: "custom validator passes", req: &selfValidating{Name: "ok"}},
		{name: "custom validator fails", req: &selfValidating{Name: "invalid"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
