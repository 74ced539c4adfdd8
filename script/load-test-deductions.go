package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// DeductRequest represents the deduction payload
type DeductRequest struct {
	Amount         int    `json:"amount"`
	Description    string `json:"description"`
	RelatedImageID string `json:"relatedImageId"`
}

// Balance is the subset of the balance response the test checks
type Balance struct {
	CreditsRemaining int `json:"creditsRemaining"`
	CreditsUsed      int `json:"creditsUsed"`
	CreditsPurchased int `json:"creditsPurchased"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	BusinessID   string
	Amount       int
	Outcome      string
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests     int
	Deducted          int
	Insufficient      int
	FailedRequests    int
	TotalTime         time.Duration
	MinResponseTime   time.Duration
	MaxResponseTime   time.Duration
	TotalResponseTime time.Duration
	ResponseTimes     []time.Duration
	ErrorCounts       map[string]int
	CreditsDeducted   map[string]int // per business
	Lock              sync.Mutex
}

type options struct {
	concurrency   int
	totalRequests int
	businessIDs   string
	baseURL       string
	delayMs       int
	maxAmount     int
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "load-test-deductions",
		Short: "Fire concurrent credit deductions and verify the ledger stays consistent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", 10, "number of concurrent workers")
	cmd.Flags().IntVarP(&opts.totalRequests, "requests", "n", 200, "total number of deductions")
	cmd.Flags().StringVarP(&opts.businessIDs, "businesses", "b", "", "comma-separated business IDs (required)")
	cmd.Flags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "base URL of the API")
	cmd.Flags().IntVar(&opts.delayMs, "delay", 0, "delay before each request in milliseconds")
	cmd.Flags().IntVar(&opts.maxAmount, "max-amount", 3, "deductions use a random amount between 1 and this")
	_ = cmd.MarkFlagRequired("businesses")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	var businessIDs []string
	for _, raw := range strings.Split(opts.businessIDs, ",") {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid business ID %q: %w", raw, err)
		}
		businessIDs = append(businessIDs, id.String())
	}
	if opts.maxAmount < 1 {
		opts.maxAmount = 1
	}

	client := &http.Client{Timeout: 60 * time.Second}

	before := make(map[string]Balance, len(businessIDs))
	for _, id := range businessIDs {
		balance, err := fetchBalance(client, opts.baseURL, id)
		if err != nil {
			return err
		}
		before[id] = balance
	}

	fmt.Printf("Load testing deductions across %d businesses\n", len(businessIDs))
	fmt.Printf("Concurrency: %d workers\n", opts.concurrency)
	fmt.Printf("Total requests: %d\n", opts.totalRequests)
	fmt.Printf("Delay between requests: %d ms\n", opts.delayMs)

	stats := &TestStats{
		TotalRequests:   opts.totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, opts.totalRequests),
		CreditsDeducted: make(map[string]int),
	}

	results := make(chan TestResult, opts.totalRequests)
	jobs := make(chan int, opts.totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < opts.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(client, opts, businessIDs, jobs, results)
		}()
	}

	for i := 0; i < opts.totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.record(result)
		}
	}()

	startTime := time.Now()
	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.Deducted + stats.Insufficient + stats.FailedRequests
			stats.Lock.Unlock()
			if completed > 0 {
				fmt.Printf("Progress: %d/%d requests completed (%.1f%%)\n",
					completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
			}
		}
	}()

	wg.Wait()
	close(results)
	<-collected
	ticker.Stop()
	stats.TotalTime = time.Since(startTime)

	printResults(stats)
	return verifyLedger(client, opts.baseURL, businessIDs, before, stats)
}

func (s *TestStats) record(result TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	switch result.Outcome {
	case "deducted":
		s.Deducted++
		s.CreditsDeducted[result.BusinessID] += result.Amount
	case "insufficient":
		s.Insufficient++
	default:
		s.FailedRequests++
		errMsg := "unknown"
		if result.Error != nil {
			errMsg = result.Error.Error()
		}
		s.ErrorCounts[errMsg]++
	}

	s.ResponseTimes = append(s.ResponseTimes, result.ResponseTime)
	s.TotalResponseTime += result.ResponseTime
	if result.ResponseTime < s.MinResponseTime {
		s.MinResponseTime = result.ResponseTime
	}
	if result.ResponseTime > s.MaxResponseTime {
		s.MaxResponseTime = result.ResponseTime
	}
}

func worker(client *http.Client, opts options, businessIDs []string, jobs <-chan int, results chan<- TestResult) {
	for jobID := range jobs {
		if opts.delayMs > 0 {
			time.Sleep(time.Duration(opts.delayMs) * time.Millisecond)
		}

		businessID := businessIDs[rand.Intn(len(businessIDs))]
		deduction := DeductRequest{
			Amount:         1 + rand.Intn(opts.maxAmount),
			Description:    "load test",
			RelatedImageID: fmt.Sprintf("load-%d", jobID),
		}
		result := TestResult{BusinessID: businessID, Amount: deduction.Amount}

		jsonData, err := json.Marshal(deduction)
		if err != nil {
			result.Error = err
			results <- result
			continue
		}

		apiURL := fmt.Sprintf("%s/businesses/%s/credits/deduct", opts.baseURL, businessID)
		req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(jsonData))
		if err != nil {
			result.Error = err
			results <- result
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", uuid.NewString())

		startTime := time.Now()
		resp, err := client.Do(req)
		result.ResponseTime = time.Since(startTime)

		if err != nil {
			result.Error = err
			results <- result
			continue
		}

		result.StatusCode = resp.StatusCode
		switch resp.StatusCode {
		case http.StatusOK:
			result.Outcome = "deducted"
		case http.StatusPaymentRequired:
			result.Outcome = "insufficient"
		default:
			result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
		}
		resp.Body.Close()

		results <- result
	}
}

func fetchBalance(client *http.Client, baseURL, businessID string) (Balance, error) {
	resp, err := client.Get(fmt.Sprintf("%s/businesses/%s/credits", baseURL, businessID))
	if err != nil {
		return Balance{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Balance{}, fmt.Errorf("balance of %s: HTTP status code %d", businessID, resp.StatusCode)
	}

	var balance Balance
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return Balance{}, fmt.Errorf("balance of %s: %w", businessID, err)
	}
	return balance, nil
}

// verifyLedger checks that every accepted deduction shows up in credits_used
// and that purchases account for the rest of the balance change
func verifyLedger(client *http.Client, baseURL string, businessIDs []string, before map[string]Balance, stats *TestStats) error {
	fmt.Println("\n----------------- LEDGER CHECK -----------------")

	var inconsistent []string
	for _, id := range businessIDs {
		after, err := fetchBalance(client, baseURL, id)
		if err != nil {
			return err
		}

		start := before[id]
		used := after.CreditsUsed - start.CreditsUsed
		purchased := after.CreditsPurchased - start.CreditsPurchased
		expected := start.CreditsRemaining - used + purchased

		ok := used == stats.CreditsDeducted[id] && after.CreditsRemaining == expected && after.CreditsRemaining >= 0
		fmt.Printf("%s: remaining %d -> %d, used +%d (accepted %d), purchased +%d  %s\n",
			id, start.CreditsRemaining, after.CreditsRemaining, used, stats.CreditsDeducted[id], purchased, mark(ok))
		if !ok {
			inconsistent = append(inconsistent, id)
		}
	}

	if len(inconsistent) > 0 {
		return fmt.Errorf("ledger inconsistent for %d businesses: %v", len(inconsistent), inconsistent)
	}
	return nil
}

func mark(ok bool) string {
	if ok {
		return "OK"
	}
	return "MISMATCH"
}

func printResults(stats *TestStats) {
	completed := stats.Deducted + stats.Insufficient
	tps := float64(completed) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	var p50, p90, p95, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		sorted := make([]time.Duration, len(stats.ResponseTimes))
		copy(sorted, stats.ResponseTimes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		p50 = sorted[len(sorted)*50/100]
		p90 = sorted[len(sorted)*90/100]
		p95 = sorted[len(sorted)*95/100]
		p99 = sorted[len(sorted)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Deducted:            %d\n", stats.Deducted)
	fmt.Printf("Insufficient (402):  %d\n", stats.Insufficient)
	fmt.Printf("Failed Requests:     %d\n", stats.FailedRequests)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Answered TPS:        %.2f\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}
}
