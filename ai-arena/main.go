package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
)

// The arena pits engine configurations against each other through the
// backend API and keeps a running score per contender. It drives whole
// games by starting ai-vs-ai matches with per-seat AI options and
// polling until they finish.

type arena struct {
	client       *http.Client
	baseURL      string
	pollInterval time.Duration
	logger       *log.Logger
	apiAddr      string

	gamesPerPair int
	gameTimeout  time.Duration
	contenders   []contender

	statusMu  sync.RWMutex
	status    arenaStatus
	jobMu     sync.Mutex
	jobCancel context.CancelFunc
	jobDone   chan struct{}
}

type contender struct {
	ID       string    `json:"id"`
	Options  aiOptions `json:"options"`
	Wins     int       `json:"wins"`
	Losses   int       `json:"losses"`
	Draws    int       `json:"draws"`
	Timeouts int       `json:"timeouts"`
}

type aiOptions struct {
	Strategy string `json:"strategy,omitempty"`
	Depth    int    `json:"depth,omitempty"`
}

type statusResponse struct {
	Status      string            `json:"status"`
	Winner      int               `json:"winner"`
	History     []json.RawMessage `json:"history"`
	BoardWidth  int               `json:"board_width"`
	BoardHeight int               `json:"board_height"`
	WinLength   int               `json:"win_length"`
}

type arenaStatus struct {
	Running      bool        `json:"running"`
	Phase        string      `json:"phase"`
	Message      string      `json:"message"`
	StartedAt    string      `json:"started_at"`
	UpdatedAt    string      `json:"updated_at"`
	GamesPlayed  int         `json:"games_played"`
	CurrentMatch *arenaMatch `json:"current_match,omitempty"`
	Standings    []contender `json:"standings"`
}

type arenaMatch struct {
	PlayerOneID string `json:"player_one_id"`
	PlayerTwoID string `json:"player_two_id"`
	GameIndex   int    `json:"game_index"`
}

func main() {
	logger, closeLog, err := buildLogger("/logs/AIArena.log")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLog()

	baseURL := getenv("BACKEND_URL", "http://backend:8080")
	pollMs := getenvInt("POLL_INTERVAL_MS", 500)
	apiAddr := getenv("ARENA_API_ADDR", ":8090")
	autostart := getenv("ARENA_AUTOSTART", "")
	gamesPerPair := getenvInt("ARENA_GAMES_PER_PAIR", 10)
	if gamesPerPair < 2 {
		gamesPerPair = 2
	}
	if gamesPerPair%2 != 0 {
		gamesPerPair++
	}
	gameTimeoutSec := getenvInt("ARENA_GAME_TIMEOUT_SEC", 300)
	contenders, err := parseContenders(getenv("ARENA_CONTENDERS", "alphabeta:8,bfs:6"))
	if err != nil {
		log.Fatalf("bad ARENA_CONTENDERS: %v", err)
	}

	a := &arena{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:      baseURL,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
		logger:       logger,
		apiAddr:      apiAddr,
		gamesPerPair: gamesPerPair,
		gameTimeout:  time.Duration(gameTimeoutSec) * time.Second,
		contenders:   contenders,
		status: arenaStatus{
			Running:   false,
			Phase:     "idle",
			Message:   "service ready",
			StartedAt: time.Now().UTC().Format(time.RFC3339),
			UpdatedAt: time.Now().UTC().Format(time.RFC3339),
			Standings: contenders,
		},
	}

	a.logf("AI arena service started. backend=%s poll_interval=%s contenders=%d", a.baseURL, a.pollInterval, len(a.contenders))
	a.startStatusAPI()

	if autostart == "1" || autostart == "true" || autostart == "yes" {
		if err := a.startMatches(); err != nil {
			a.logf("Autostart failed: %v", err)
		}
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	<-sigCtx.Done()
	_ = a.stopMatches("shutdown")
	a.logf("Arena service stopping")
}

// parseContenders reads a comma-separated strategy:depth list, e.g.
// "alphabeta:8,bfs:6,alphabeta:12".
func parseContenders(raw string) ([]contender, error) {
	parts := strings.Split(raw, ",")
	out := make([]contender, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, ":", 2)
		strategy := fields[0]
		switch strategy {
		case "alphabeta", "bfs":
		default:
			return nil, fmt.Errorf("unknown strategy %q", strategy)
		}
		depth := 0
		if len(fields) == 2 {
			parsed, err := strconv.Atoi(fields[1])
			if err != nil || parsed < 1 {
				return nil, fmt.Errorf("bad depth in %q", part)
			}
			depth = parsed
		}
		out = append(out, contender{
			ID:      part,
			Options: aiOptions{Strategy: strategy, Depth: depth},
		})
	}
	if len(out) < 2 {
		return nil, fmt.Errorf("need at least two contenders, got %d", len(out))
	}
	return out, nil
}

func (a *arena) startStatusAPI() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/arena/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": a.getStatus().Running})
	})
	mux.HandleFunc("/api/arena/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.getStatus())
	})
	mux.HandleFunc("/api/arena/start", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		if err := a.startMatches(); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, a.getStatus())
	})
	mux.HandleFunc("/api/arena/stop", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		if err := a.stopMatches("requested via api"); err != nil {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, a.getStatus())
	})
	server := &http.Server{Addr: a.apiAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logf("arena api server error: %v", err)
		}
	}()
}

func (a *arena) getStatus() arenaStatus {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status
}

func (a *arena) updateStatus(mutator func(*arenaStatus)) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	mutator(&a.status)
	a.status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

func (a *arena) startMatches() error {
	a.jobMu.Lock()
	defer a.jobMu.Unlock()
	if a.jobCancel != nil {
		return fmt.Errorf("arena already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.jobCancel = cancel
	a.jobDone = done
	a.updateStatus(func(s *arenaStatus) {
		s.Running = true
		s.Phase = "starting"
		s.Message = "arena starting"
		s.GamesPlayed = 0
	})
	go func() {
		defer close(done)
		if err := a.waitBackendReady(ctx); err != nil {
			a.updateStatus(func(s *arenaStatus) {
				s.Phase = "error"
				s.Message = err.Error()
			})
		} else if err := a.runAllPairs(ctx); err != nil && err != context.Canceled {
			a.updateStatus(func(s *arenaStatus) {
				s.Phase = "error"
				s.Message = err.Error()
			})
		}
		a.updateStatus(func(s *arenaStatus) {
			s.Running = false
			if s.Phase != "error" {
				s.Phase = "idle"
				s.Message = "service ready"
			}
		})
		a.jobMu.Lock()
		a.jobCancel = nil
		a.jobDone = nil
		a.jobMu.Unlock()
	}()
	return nil
}

func (a *arena) stopMatches(reason string) error {
	a.jobMu.Lock()
	cancel := a.jobCancel
	done := a.jobDone
	a.jobMu.Unlock()
	if cancel == nil {
		return fmt.Errorf("no running arena job")
	}
	a.logf("Stopping arena: %s", reason)
	cancel()
	if done != nil {
		<-done
	}
	a.updateStatus(func(s *arenaStatus) {
		s.Running = false
		s.Phase = "idle"
		s.Message = "service ready"
	})
	return nil
}

func (a *arena) runAllPairs(ctx context.Context) error {
	a.updateStatus(func(s *arenaStatus) {
		s.Phase = "running"
		s.Message = "arena running"
	})
	games := 0
	for i := 0; i < len(a.contenders); i++ {
		for j := i + 1; j < len(a.contenders); j++ {
			for game := 0; game < a.gamesPerPair; game++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// Alternate seating so neither contender always moves
				// first.
				oneIdx, twoIdx := i, j
				if game%2 == 1 {
					oneIdx, twoIdx = j, i
				}
				a.updateStatus(func(s *arenaStatus) {
					s.CurrentMatch = &arenaMatch{
						PlayerOneID: a.contenders[oneIdx].ID,
						PlayerTwoID: a.contenders[twoIdx].ID,
						GameIndex:   game,
					}
				})
				status, err := a.playGame(ctx, a.contenders[oneIdx].Options, a.contenders[twoIdx].Options)
				if err != nil {
					if err == context.Canceled || ctx.Err() != nil {
						return ctx.Err()
					}
					a.logf("game error (%s vs %s): %v", a.contenders[oneIdx].ID, a.contenders[twoIdx].ID, err)
					a.contenders[oneIdx].Timeouts++
					a.contenders[twoIdx].Timeouts++
					continue
				}
				switch status.Winner {
				case 1:
					a.contenders[oneIdx].Wins++
					a.contenders[twoIdx].Losses++
				case 2:
					a.contenders[twoIdx].Wins++
					a.contenders[oneIdx].Losses++
				default:
					a.contenders[oneIdx].Draws++
					a.contenders[twoIdx].Draws++
				}
				games++
				a.updateStatus(func(s *arenaStatus) {
					s.GamesPlayed = games
					s.Standings = append([]contender(nil), a.contenders...)
				})
				a.logf("game %d: %s vs %s winner=%d moves=%d",
					games, a.contenders[oneIdx].ID, a.contenders[twoIdx].ID, status.Winner, len(status.History))
			}
		}
	}
	a.updateStatus(func(s *arenaStatus) {
		s.CurrentMatch = nil
		s.Message = "all pairs played"
	})
	a.logf("Arena finished after %d games", games)
	return nil
}

func (a *arena) playGame(ctx context.Context, playerOne, playerTwo aiOptions) (statusResponse, error) {
	if err := a.postJSON("/api/start", map[string]any{
		"settings": map[string]any{
			"mode":          "ai_vs_ai",
			"player_one_ai": playerOne,
			"player_two_ai": playerTwo,
		},
	}, nil); err != nil {
		return statusResponse{}, err
	}
	deadline := time.Now().Add(a.gameTimeout)
	for {
		if ctx.Err() != nil {
			return statusResponse{}, ctx.Err()
		}
		status, err := a.fetchStatus()
		if err != nil {
			return statusResponse{}, err
		}
		if status.Status != "running" && status.Status != "not_started" {
			return status, nil
		}
		if a.gameTimeout > 0 && time.Now().After(deadline) {
			_ = a.stopGame()
			return statusResponse{}, fmt.Errorf("game timeout after %s", a.gameTimeout)
		}
		if !sleepWithContext(ctx, a.pollInterval) {
			return statusResponse{}, ctx.Err()
		}
	}
}

func (a *arena) fetchStatus() (statusResponse, error) {
	var status statusResponse
	if err := a.getJSON("/api/status", &status); err != nil {
		return statusResponse{}, err
	}
	return status, nil
}

func (a *arena) stopGame() error {
	return a.postJSON("/api/stop", map[string]any{}, nil)
}

func (a *arena) waitBackendReady(ctx context.Context) error {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := a.ping(); err == nil {
			return nil
		}
		if !sleepWithContext(ctx, 1*time.Second) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("timeout after 60s")
}

func (a *arena) ping() error {
	req, err := http.NewRequest(http.MethodGet, a.baseURL+"/api/ping", nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping status %d", resp.StatusCode)
	}
	return nil
}

func (a *arena) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s -> %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *arena) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s -> %d: %s", path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *arena) logf(format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	a.logger.Printf("[%s] %s", ts, fmt.Sprintf(format, args...))
}

func buildLogger(path string) (*log.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(io.MultiWriter(os.Stdout, f), "", 0)
	return logger, func() { _ = f.Close() }, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
