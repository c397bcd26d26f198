package channels

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"farm_claims/internal/utility"
)

// SendWebhook gửi một sự kiện domain tới webhook URL đã cấu hình.
func SendWebhook(ctx context.Context, webhookURL string, eventType string, payload map[string]interface{}) error {
	body := map[string]interface{}{
		"eventType": eventType,
		"payload":   payload,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := utility.MapToJSON(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", webhookURL, strings.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
