package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

// seed_check replays the same fixed-seed generation request against one or
// two running instances and verifies the returned seat maps are identical.
// Any divergence means the optimizer is not deterministic for a seed.

type envelope struct {
	Data struct {
		ProposalID string            `json:"proposalId"`
		SeatMap    map[string]string `json:"seatMap"`
		Cost       float64           `json:"cost"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type run struct {
	Base     string
	SeatMap  map[string]string
	Cost     float64
	Duration time.Duration
	Err      error
}

func main() {
	var (
		base        string
		compareBase string
		requestPath string
		repeats     int
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&compareBase, "compare-base", "", "Optional second instance to diff against")
	flag.StringVar(&requestPath, "request", filepath.Join("scripts", "seed_check", "request.json"), "Path to generation request JSON (must carry options.randomSeed)")
	flag.IntVar(&repeats, "repeats", 3, "Times to replay the request per instance")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	payload, err := loadRequest(requestPath)
	if err != nil {
		log.Fatalf("failed to load request: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	bases := []string{base}
	if compareBase != "" {
		bases = append(bases, compareBase)
	}

	var runs []run
	for _, b := range bases {
		for i := 0; i < repeats; i++ {
			runs = append(runs, generate(client, b, payload))
		}
	}

	diffs := printReport(runs)
	if diffs > 0 {
		os.Exit(1)
	}
}

func loadRequest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Options struct {
			RandomSeed *int64 `json:"randomSeed"`
		} `json:"options"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("request is not valid JSON: %w", err)
	}
	if probe.Options.RandomSeed == nil {
		return nil, fmt.Errorf("request must set options.randomSeed, otherwise runs cannot match")
	}
	return data, nil
}

func generate(client *http.Client, base string, payload []byte) run {
	r := run{Base: base}

	url := strings.TrimRight(base, "/") + "/api/v1/charts/generate"
	start := time.Now()
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		return r
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.Err = fmt.Errorf("read body: %w", err)
		return r
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		r.Err = fmt.Errorf("decode response: %w", err)
		return r
	}
	if env.Error != nil {
		r.Err = fmt.Errorf("api error %s: %s", env.Error.Code, env.Error.Message)
		return r
	}
	if resp.StatusCode != http.StatusCreated {
		r.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return r
	}

	r.SeatMap = env.Data.SeatMap
	r.Cost = env.Data.Cost
	return r
}

func printReport(runs []run) int {
	fmt.Println("Seed Determinism Report")
	fmt.Println("=======================")

	var reference *run
	diffs := 0
	for i := range runs {
		res := &runs[i]
		status := "OK"
		switch {
		case res.Err != nil:
			status = "ERROR"
			diffs++
		case reference == nil:
			reference = res
		case !reflect.DeepEqual(reference.SeatMap, res.SeatMap) || reference.Cost != res.Cost:
			status = "DIFF"
			diffs++
		}

		fmt.Printf("[%s] %s (%s)\n", status, res.Base, res.Duration)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
		} else {
			fmt.Printf("  Seats: %d | Cost: %g\n", len(res.SeatMap), res.Cost)
		}
	}

	fmt.Printf("Divergent runs: %d\n", diffs)
	return diffs
}
