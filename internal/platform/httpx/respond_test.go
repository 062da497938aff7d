package httpx

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Fariq Traders"}`))

	var body struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(req, &body))
	require.Equal(t, "Fariq Traders", body.Name)
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`{"note":"`)
	buf.Write(bytes.Repeat([]byte("x"), maxBodyBytes+1))
	buf.WriteString(`"}`)

	req := httptest.NewRequest(http.MethodPost, "/", &buf)

	var body struct {
		Note string `json:"note"`
	}
	require.Error(t, DecodeJSON(req, &body))
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrDuplicate, http.StatusConflict},
		{ErrConflict, http.StatusConflict},
		{ErrValidation, http.StatusBadRequest},
		{fmt.Errorf("%w: customer 9", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		require.Equal(t, tc.status, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}
