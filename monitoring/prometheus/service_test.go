package prometheus

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pharoslabs/pharos/runtime"
	"github.com/pharoslabs/pharos/testing/assert"
	"github.com/pharoslabs/pharos/testing/require"
	"github.com/pkg/errors"
	logTest "github.com/sirupsen/logrus/hooks/test"
)

type healthyService struct{}

func (_ *healthyService) Start()        {}
func (_ *healthyService) Stop() error   { return nil }
func (_ *healthyService) Status() error { return nil }

type unhealthyService struct{}

func (_ *unhealthyService) Start()        {}
func (_ *unhealthyService) Stop() error   { return nil }
func (_ *unhealthyService) Status() error { return errors.New("I'm unhealthy!") }

func TestLifecycle(t *testing.T) {
	hook := logTest.NewGlobal()
	prometheusService := NewService("127.0.0.1:18951", nil)

	prometheusService.Start()
	require.LogsContain(t, hook, "Starting service")

	require.NoError(t, prometheusService.Stop())
	require.LogsContain(t, hook, "Stopping service")
}

func TestHealthz_AllServicesHealthy(t *testing.T) {
	registry := runtime.NewServiceRegistry()
	require.NoError(t, registry.RegisterService(&healthyService{}))
	s := NewService("", registry)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	s.healthzHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body, err := ioutil.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, true, strings.Contains(string(body), "OK"))
}

func TestHealthz_UnhealthyService(t *testing.T) {
	registry := runtime.NewServiceRegistry()
	require.NoError(t, registry.RegisterService(&unhealthyService{}))
	s := NewService("", registry)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	s.healthzHandler(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body, err := ioutil.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, true, strings.Contains(string(body), "ERROR I'm unhealthy!"))
}

func TestAdditionalHandlers_Routed(t *testing.T) {
	s := NewService("", nil, Handler{
		Path: "/annotated",
		Handler: func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte("hello")); err != nil {
				t.Error(err)
			}
		},
	})

	req := httptest.NewRequest("GET", "/annotated", nil)
	rr := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())
}
