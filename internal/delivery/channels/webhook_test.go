package channels

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"farm_claims/internal/utility"
)

func TestSendWebhook_GuiDungPayload(t *testing.T) {
	var gotBody string
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bytes, _ := io.ReadAll(r.Body)
		gotBody = string(bytes)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	payload := map[string]interface{}{
		"reference": "RESH-WHTK-0001",
		"status":    "ON_HOLD",
	}
	if err := SendWebhook(context.Background(), server.URL, "claim-created", payload); err != nil {
		t.Fatalf("gửi webhook thất bại: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type phải là application/json, nhận %q", gotContentType)
	}

	body, err := utility.JSONToMap(gotBody)
	if err != nil {
		t.Fatalf("body không phải JSON hợp lệ: %v", err)
	}
	if body["eventType"] != "claim-created" {
		t.Errorf("eventType không khớp: %v", body["eventType"])
	}
	inner, ok := body["payload"].(map[string]interface{})
	if !ok {
		t.Fatalf("payload không đúng kiểu: %T", body["payload"])
	}
	if inner["reference"] != "RESH-WHTK-0001" || inner["status"] != "ON_HOLD" {
		t.Errorf("payload không khớp: %v", inner)
	}
}

func TestSendWebhook_StatusNgoai2xxLaLoi(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := SendWebhook(context.Background(), server.URL, "claim-created", nil)
	if err == nil {
		t.Fatal("status 502 phải trả về lỗi")
	}
}
