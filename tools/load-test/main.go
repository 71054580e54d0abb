package main

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Hammers the clock-in endpoint with duplicate requests per employee. With
// the per-day invariant in place, exactly one request per employee should
// come back 201 and the rest 409.
func main() {
	url := "http://localhost:8080/api/v1/attendance/clock-in"
	contentType := "application/json"

	numEmployees := 2000
	requestsPerEmployee := 3
	totalRequests := numEmployees * requestsPerEmployee
	concurrency := 50 // Limit concurrent requests to avoid local port exhaustion

	fmt.Printf("Starting load test: %d employees (%d requests each) to %s with concurrency %d\n", numEmployees, requestsPerEmployee, url, concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	var createdCount int64
	var conflictCount int64
	var failCount int64

	startTime := time.Now()

	for i := 0; i < numEmployees; i++ {
		wg.Add(1)
		sem <- struct{}{}

		email := fmt.Sprintf("load-test-emp-%d@example.com", i)

		go func(email string) {
			defer wg.Done()
			defer func() { <-sem }()

			payload := []byte(fmt.Sprintf(`{"email": %q}`, email))

			var inner sync.WaitGroup
			for j := 0; j < requestsPerEmployee; j++ {
				inner.Add(1)
				// Fire the duplicates concurrently so they race on the same day key.
				go func() {
					defer inner.Done()
					resp, err := http.Post(url, contentType, bytes.NewBuffer(payload))
					if err != nil {
						atomic.AddInt64(&failCount, 1)
						return
					}
					switch {
					case resp.StatusCode == http.StatusCreated:
						atomic.AddInt64(&createdCount, 1)
					case resp.StatusCode == http.StatusConflict:
						atomic.AddInt64(&conflictCount, 1)
					default:
						atomic.AddInt64(&failCount, 1)
					}
					resp.Body.Close()
				}()
			}
			inner.Wait()
		}(email)
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", totalRequests)
	fmt.Printf("Created (201):  %d (want %d)\n", createdCount, numEmployees)
	fmt.Printf("Conflict (409): %d\n", conflictCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(totalRequests)/duration.Seconds())
}
