package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/api/middleware"
)

// RaceResult contains metrics for a single payout request
type RaceResult struct {
	AccountID    uuid.UUID
	StatusCode   int
	ResponseTime time.Duration
	Error        error
}

// RaceStats contains aggregated statistics
type RaceStats struct {
	TotalRequests   int
	StatusCounts    map[int]int
	SuccessByAcct   map[uuid.UUID]int
	ResponseTimes   []time.Duration
	TransportErrors map[string]int
	TotalTime       time.Duration
	Lock            sync.Mutex
}

type client struct {
	http     *http.Client
	baseURL  string
	verifier *middleware.TokenVerifier
}

func main() {
	accounts := flag.Int("accounts", 10, "Number of fresh accounts to open")
	concurrency := flag.Int("c", 10, "Concurrent payout requests per account")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	secret := flag.String("secret", os.Getenv("RL_JWT_SECRET"), "HS256 secret used to sign tokens")
	issuer := flag.String("issuer", "", "Token issuer expected by the server")
	flag.Parse()

	if *secret == "" {
		fmt.Println("a signing secret is required (-secret or RL_JWT_SECRET)")
		os.Exit(2)
	}

	cl := &client{
		http:     &http.Client{Timeout: 10 * time.Second},
		baseURL:  *baseURL,
		verifier: middleware.NewTokenVerifier(*secret, *issuer),
	}

	fmt.Printf("Opening %d accounts, then racing %d payouts per account\n", *accounts, *concurrency)

	ids := make([]uuid.UUID, 0, *accounts)
	for i := 0; i < *accounts; i++ {
		id := uuid.New()
		if err := cl.prepare(id); err != nil {
			fmt.Printf("Failed to prepare account %s: %v\n", id, err)
			os.Exit(1)
		}
		ids = append(ids, id)
	}

	stats := &RaceStats{
		TotalRequests:   *accounts * *concurrency,
		StatusCounts:    make(map[int]int),
		SuccessByAcct:   make(map[uuid.UUID]int),
		TransportErrors: make(map[string]int),
	}

	results := make(chan RaceResult, stats.TotalRequests)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < *concurrency; i++ {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				<-start
				results <- cl.requestPayout(id)
			}(id)
		}
	}

	startTime := time.Now()
	close(start)
	wg.Wait()
	close(results)
	stats.TotalTime = time.Since(startTime)

	for r := range results {
		stats.Lock.Lock()
		if r.Error != nil {
			stats.TransportErrors[r.Error.Error()]++
		} else {
			stats.StatusCounts[r.StatusCode]++
			if r.StatusCode == http.StatusCreated {
				stats.SuccessByAcct[r.AccountID]++
			}
		}
		stats.ResponseTimes = append(stats.ResponseTimes, r.ResponseTime)
		stats.Lock.Unlock()
	}

	if !printResults(stats, ids) {
		os.Exit(1)
	}
}

// prepare opens the account and sets its payout destination
func (c *client) prepare(id uuid.UUID) error {
	if code, err := c.send(id, http.MethodPost, "/v1/accounts", nil); err != nil {
		return err
	} else if code != http.StatusCreated {
		return fmt.Errorf("open account: HTTP status code %d", code)
	}

	body := map[string]string{"email": fmt.Sprintf("race+%s@example.com", id.String()[:8])}
	if code, err := c.send(id, http.MethodPut, "/v1/me/payout-destination", body); err != nil {
		return err
	} else if code != http.StatusOK {
		return fmt.Errorf("set payout destination: HTTP status code %d", code)
	}
	return nil
}

func (c *client) requestPayout(id uuid.UUID) RaceResult {
	startTime := time.Now()
	code, err := c.send(id, http.MethodPost, "/v1/me/payouts", nil)
	return RaceResult{
		AccountID:    id,
		StatusCode:   code,
		ResponseTime: time.Since(startTime),
		Error:        err,
	}
}

func (c *client) send(id uuid.UUID, method, path string, body any) (int, error) {
	token, err := c.verifier.Sign(id, time.Now(), 5*time.Minute)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// printResults reports the run and whether every account was paid out exactly once
func printResults(stats *RaceStats, ids []uuid.UUID) bool {
	var p50, p90, p99, maxTime time.Duration
	if n := len(stats.ResponseTimes); n > 0 {
		sorted := append([]time.Duration(nil), stats.ResponseTimes...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		p50 = sorted[n*50/100]
		p90 = sorted[n*90/100]
		p99 = sorted[n*99/100]
		maxTime = sorted[n-1]
	}

	fmt.Println("\n================= RACE RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Total Time:          %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f req/s\n", float64(stats.TotalRequests)/stats.TotalTime.Seconds())

	fmt.Println("\n----------------- STATUS CODES -----------------")
	codes := make([]int, 0, len(stats.StatusCounts))
	for code := range stats.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Printf("%d %-28s: %d\n", code, http.StatusText(code), stats.StatusCounts[code])
	}
	for msg, count := range stats.TransportErrors {
		fmt.Printf("transport error %-20s: %d\n", msg, count)
	}

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P99 Response:        %v\n", p99)
	fmt.Printf("Maximum Response:    %v\n", maxTime)

	ok := true
	for _, id := range ids {
		if n := stats.SuccessByAcct[id]; n != 1 {
			fmt.Printf("account %s: %d successful payouts, want exactly 1\n", id, n)
			ok = false
		}
	}

	fmt.Println("\n================= CONCLUSION =================")
	if ok {
		fmt.Println("PASS: every account was paid out exactly once")
	} else {
		fmt.Println("FAIL: payout exclusivity violated")
	}
	return ok
}
