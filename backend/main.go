package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	BoardWidth      int               `json:"board_width"`
	BoardHeight     int               `json:"board_height"`
	WinLength       int               `json:"win_length"`
	Status          string            `json:"status"`
	AiThinking      bool              `json:"ai_thinking"`
	History         []historyEntryDTO `json:"history"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode        string    `json:"mode"`
	HumanPlayer int       `json:"human_player"`
	BoardWidth  int       `json:"board_width"`
	BoardHeight int       `json:"board_height"`
	WinLength   int       `json:"win_length"`
	PlayerOneAI AIOptions `json:"player_one_ai"`
	PlayerTwoAI AIOptions `json:"player_two_ai"`
}

type apiMove struct {
	Column int `json:"column"`
}

type historyEntryDTO struct {
	Column    int     `json:"column"`
	Row       int     `json:"row"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Depth     int     `json:"depth"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	History         []historyEntryDTO `json:"history"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	BoardWidth      int               `json:"board_width"`
	BoardHeight     int               `json:"board_height"`
	WinLength       int               `json:"win_length"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type analyzeRequest struct {
	Strategy    string `json:"strategy"`
	Depth       int    `json:"depth"`
	Protagonist int    `json:"protagonist"`
}

type analyzeResponse struct {
	Strategy  string  `json:"strategy"`
	Depth     int     `json:"depth"`
	Column    int     `json:"column"`
	Value     float64 `json:"value,omitempty"`
	ElapsedMs int64   `json:"elapsed_ms"`
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	controller := NewGameController(DefaultGameSettings())
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if controller.Tick() && hub.HasClients() {
					if entry, ok := controller.LatestHistoryEntry(); ok {
						hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
					}
					hub.broadcastStatus <- controllerStatus(controller)
				}
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		settings := settingsFromDTO(payload.Settings, DefaultGameSettings())
		controller.StartGame(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		settings := controller.Settings()
		controller.Reset(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if payload.Config != nil {
			configStore.Update(*payload.Config)
		}
		if payload.Settings != nil {
			settings := settingsFromDTO(*payload.Settings, controller.Settings())
			controller.UpdateSettings(settings, false)
		}
		hub.broadcastSettings <- settingsPayload{
			Settings: controllerSettingsDTO(controller.Settings()),
			Config:   GetConfig(),
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload apiMove
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, errMsg := controller.ApplyHumanMove(NewMove(payload.Column))
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		if entry, ok := controller.LatestHistoryEntry(); ok {
			hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		var payload analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		resp, err := analyzeCurrentPosition(controller, payload)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("addr", ":8080").Msg("backend listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Info().AnErr("cause", sigCtx.Err()).Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	cancel()
	if runErr != nil {
		log.Error().Err(runErr).Msg("exiting after server error")
	}
}

// analyzeCurrentPosition runs a one-off engine query against the live
// board without touching the game.
func analyzeCurrentPosition(controller *GameController, req analyzeRequest) (analyzeResponse, error) {
	state := controller.State()
	protagonist := state.ToMove()
	if req.Protagonist == 1 || req.Protagonist == 2 {
		protagonist = Player(req.Protagonist)
	}
	depth := req.Depth
	if depth <= 0 {
		depth = GetConfig().AiDepth
	}
	strategy := resolveStrategy(req.Strategy, state.Board.Height())

	start := time.Now()
	resp := analyzeResponse{Strategy: strategy, Depth: depth}
	switch strategy {
	case StrategyAlphaBeta:
		col, value, err := AnalyzeAlphaBeta(state.Board, protagonist, depth)
		if err != nil {
			return analyzeResponse{}, err
		}
		resp.Column = col
		resp.Value = value
	default:
		col, err := AnalyzeBFS(state.Board, protagonist, depth)
		if err != nil {
			return analyzeResponse{}, err
		}
		resp.Column = col
	}
	resp.ElapsedMs = time.Since(start).Milliseconds()
	return resp, nil
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	status := controllerStatus(controller)
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			status := controllerStatus(controller)
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})
		}
	}
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	settings := controller.Settings()
	return StatusResponse{
		Settings:        controllerSettingsDTO(settings),
		Config:          GetConfig(),
		Board:           boardToSlice(state.Board),
		NextPlayer:      playerToInt(state.ToMove()),
		Winner:          winnerFromStatus(state.Status),
		BoardWidth:      state.Board.Width(),
		BoardHeight:     state.Board.Height(),
		WinLength:       state.Board.WinLength(),
		Status:          state.Status.String(),
		AiThinking:      controller.AiThinking(),
		History:         historyToDTO(controller.History()),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	if dto.BoardWidth > 0 {
		settings.BoardWidth = dto.BoardWidth
	}
	if dto.BoardHeight > 0 {
		settings.BoardHeight = dto.BoardHeight
	}
	if dto.WinLength > 0 {
		settings.WinLength = dto.WinLength
	}
	settings.PlayerOneAI = dto.PlayerOneAI
	settings.PlayerTwoAI = dto.PlayerTwoAI
	switch dto.Mode {
	case "ai_vs_ai":
		settings.PlayerOneType = PlayerAI
		settings.PlayerTwoType = PlayerAI
	case "human_vs_human":
		settings.PlayerOneType = PlayerHuman
		settings.PlayerTwoType = PlayerHuman
	case "ai_vs_human":
		if dto.HumanPlayer == 2 {
			settings.PlayerOneType = PlayerAI
			settings.PlayerTwoType = PlayerHuman
		} else {
			settings.PlayerOneType = PlayerHuman
			settings.PlayerTwoType = PlayerAI
		}
	}
	return settings
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	mode := "ai_vs_human"
	if settings.PlayerOneType == PlayerAI && settings.PlayerTwoType == PlayerAI {
		mode = "ai_vs_ai"
	} else if settings.PlayerOneType == PlayerHuman && settings.PlayerTwoType == PlayerHuman {
		mode = "human_vs_human"
	}
	humanPlayer := 0
	if settings.PlayerOneType == PlayerHuman && settings.PlayerTwoType != PlayerHuman {
		humanPlayer = 1
	} else if settings.PlayerTwoType == PlayerHuman && settings.PlayerOneType != PlayerHuman {
		humanPlayer = 2
	} else if settings.PlayerOneType == PlayerHuman && settings.PlayerTwoType == PlayerHuman {
		humanPlayer = 1
	}
	return GameSettingsDTO{
		Mode:        mode,
		HumanPlayer: humanPlayer,
		BoardWidth:  settings.BoardWidth,
		BoardHeight: settings.BoardHeight,
		WinLength:   settings.WinLength,
		PlayerOneAI: settings.PlayerOneAI,
		PlayerTwoAI: settings.PlayerTwoAI,
	}
}

// boardToSlice renders the grid bottom row first. Highlighted cells keep
// their 10/20 values so clients can mark the winning run.
func boardToSlice(board Board) [][]int {
	rows := make([][]int, board.Height())
	for row := 0; row < board.Height(); row++ {
		rows[row] = make([]int, board.Width())
		for col := 0; col < board.Width(); col++ {
			rows[row][col] = int(board.At(row, col))
		}
	}
	return rows
}

func playerToInt(player Player) int {
	return int(player)
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusPlayerOneWon:
		return 1
	case StatusPlayerTwoWon:
		return 2
	default:
		return 0
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		Column:    entry.Move.Column,
		Row:       entry.Move.Row,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Depth:     entry.Depth,
	}
}

func resetFromController(controller *GameController) resetPayload {
	state := controller.State()
	settings := controller.Settings()
	return resetPayload{
		History:         historyToDTO(controller.History()),
		Board:           boardToSlice(state.Board),
		NextPlayer:      playerToInt(state.ToMove()),
		Winner:          winnerFromStatus(state.Status),
		Status:          state.Status.String(),
		BoardWidth:      settings.BoardWidth,
		BoardHeight:     settings.BoardHeight,
		WinLength:       settings.WinLength,
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
