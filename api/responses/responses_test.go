package responses

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/zubairqazi/bazaarline-backend/pkg/errors"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not json: %v", err)
	}
	return body
}

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"order_number": "a1b2c3d4"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := decodeBody(t, rec)
	if body["status"] != true {
		t.Fatalf("expected status true, got %v", body["status"])
	}
	doc, ok := body["doc"].(map[string]any)
	if !ok || doc["order_number"] != "a1b2c3d4" {
		t.Fatalf("unexpected doc %v", body["doc"])
	}
}

func TestWriteSuccessStatusCreated(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestWriteErrorValidationPassesMessageAndDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "withdraw amount must be at least 500").
		WithDetails(map[string]any{"minimum": "500"})
	WriteError(context.Background(), testLogger(), rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != false {
		t.Fatalf("expected status false, got %v", body["status"])
	}
	if body["code"] != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %v", body["code"])
	}
	if body["message"] != "withdraw amount must be at least 500" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	details, ok := body["details"].(map[string]any)
	if !ok || details["minimum"] != "500" {
		t.Fatalf("unexpected details %v", body["details"])
	}
}

func TestWriteErrorStateConflict(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeStateConflict, "withdraw request already approved")
	WriteError(context.Background(), testLogger(), rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "withdraw request already approved" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestWriteErrorInternalHidesMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), testLogger(), rec, errors.New("pq: connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "internal server error" {
		t.Fatalf("internal detail leaked: %v", body["message"])
	}
	if _, ok := body["details"]; ok {
		t.Fatalf("unexpected details %v", body["details"])
	}
}

func TestWriteErrorDependencyUsesPublicMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeDependency, "settlement partially applied").
		WithDetails(map[string]any{"failed_steps": "seller_wallet"})
	WriteError(context.Background(), testLogger(), rec, err)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "dependency unavailable" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	details, ok := body["details"].(map[string]any)
	if !ok || details["failed_steps"] != "seller_wallet" {
		t.Fatalf("unexpected details %v", body["details"])
	}
}
