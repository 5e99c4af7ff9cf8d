package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func main() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetRetryCount(5).
		SetRetryWaitTime(500 * time.Millisecond)

	// 1. Health
	expect(client, "/health", nil, 200)

	// 2. First page
	body := expect(client, "/baskets", map[string]string{"limit": "2"}, 200)
	var list struct {
		Baskets []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"baskets"`
		Pagination struct {
			Total   int  `json:"total"`
			HasMore bool `json:"hasMore"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		log.Fatalf("decode list: %v", err)
	}
	if len(list.Baskets) == 0 {
		log.Fatal("expected at least one basket; seed the store first")
	}
	if len(list.Baskets) > 2 {
		log.Fatalf("limit=2 returned %d baskets", len(list.Baskets))
	}

	// 3. Filters
	expect(client, "/baskets", map[string]string{"riskLevel": "high", "search": "crypto"}, 200)
	expect(client, "/baskets", map[string]string{"riskLevel": "INVALID"}, 400)
	expect(client, "/baskets", map[string]string{"page": "1", "offset": "0"}, 400)

	// 4. Detail
	expect(client, "/baskets/"+list.Baskets[0].ID, nil, 200)
	expect(client, "/baskets/does-not-exist", nil, 404)

	fmt.Println("ALL TESTS PASSED")
}

func expect(client *resty.Client, path string, query map[string]string, status int) []byte {
	fmt.Printf("Testing GET %s %v...\n", path, query)
	resp, err := client.R().SetQueryParams(query).Get(path)
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode() != status {
		log.Fatalf("expected status %d, got %d. Body: %s", status, resp.StatusCode(), resp.String())
	}
	fmt.Printf("Response: %s\n", resp.String())
	return resp.Body()
}
