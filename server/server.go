// Package server streams pond snapshots to external renderers over a
// websocket and accepts control commands on the same connection.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/pond/components"
	"github.com/pthm-cable/pond/sim"
)

// Command types accepted on the control channel.
const (
	CmdStart           = "start"
	CmdStop            = "stop"
	CmdToggle          = "toggle"
	CmdReset           = "reset"
	CmdSpeed           = "speed"
	CmdSpecies         = "species"
	CmdDetectionRadius = "detection_radius"
	CmdPopulation      = "population"
)

// Command is a control message from a client. Params carries a partial
// parameter bundle for species and population commands; keys use the
// config file names and missing keys keep their current values.
type Command struct {
	Type    string          `json:"type"`
	Value   float64         `json:"value,omitempty"`
	Species string          `json:"species,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Message is a frame sent to clients: either a snapshot or the reply to a
// command.
type Message struct {
	Type     string        `json:"type"` // "snapshot" or "reply"
	Snapshot *sim.Snapshot `json:"snapshot,omitempty"`

	Command string  `json:"command,omitempty"`
	Running bool    `json:"running,omitempty"`
	Speed   float64 `json:"speed,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Server serves the snapshot stream and control channel for one driver.
type Server struct {
	driver   *sim.Driver
	log      *slog.Logger
	ctx      context.Context // parent for driver runs started by clients
	interval time.Duration

	upgrader websocket.Upgrader
	clients  atomic.Int64
}

// New creates a server. Snapshots are pushed every interval; ctx bounds
// any simulation run a client starts.
func New(ctx context.Context, d *sim.Driver, logger *slog.Logger, interval time.Duration) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second / 30
	}
	return &Server{
		driver:   d,
		log:      logger,
		ctx:      ctx,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes registers the server's handlers on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.WSHandler())
	mux.HandleFunc("/snapshot", s.SnapshotHandler())
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int64 {
	return s.clients.Load()
}

// SnapshotHandler serves a single snapshot as JSON.
func (s *Server) SnapshotHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		snap := s.driver.Snapshot()
		rw.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(rw).Encode(snap); err != nil {
			s.log.Warn("snapshot encode failed", "error", err)
		}
	}
}

// WSHandler upgrades the connection, then pushes snapshots on a timer while
// reading commands until the client goes away.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		s.clients.Add(1)
		defer s.clients.Add(-1)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		var writeMu sync.Mutex
		send := func(m Message) error {
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			return conn.WriteJSON(m)
		}

		// Writer goroutine.
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			ticker := time.NewTicker(s.interval)
			defer ticker.Stop()
			for {
				snap := s.driver.Snapshot()
				if err := send(Message{Type: "snapshot", Snapshot: &snap}); err != nil {
					// Unblocks the reader.
					conn.Close()
					return
				}
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()

		// Reader loop: commands until the client closes.
		for ctx.Err() == nil {
			var cmd Command
			if err := conn.ReadJSON(&cmd); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.log.Debug("control read failed", "error", err)
				}
				break
			}
			reply := Message{Type: "reply", Command: cmd.Type}
			if err := s.Apply(cmd); err != nil {
				reply.Error = err.Error()
			}
			snap := s.driver.Snapshot()
			reply.Running, reply.Speed = snap.Running, snap.Speed
			if err := send(reply); err != nil {
				break
			}
		}

		cancel()
		<-writerDone
	}
}

// Apply executes one control command against the driver.
func (s *Server) Apply(cmd Command) error {
	switch cmd.Type {
	case CmdStart:
		s.driver.Start(s.ctx)
	case CmdStop:
		s.driver.Stop()
	case CmdToggle:
		s.driver.Toggle(s.ctx)
	case CmdReset:
		s.driver.Reset()
	case CmdSpeed:
		s.driver.SetSimulationSpeed(cmd.Value)
	case CmdDetectionRadius:
		species, err := components.ParseSpecies(cmd.Species)
		if err != nil {
			return err
		}
		s.driver.SetDetectionRadius(species, cmd.Value)
	case CmdSpecies:
		species, err := components.ParseSpecies(cmd.Species)
		if err != nil {
			return err
		}
		var applyErr error
		s.driver.Do(func(w *sim.World) {
			params := w.SpeciesParams(species)
			if applyErr = mergeParams(cmd.Params, &params); applyErr == nil {
				w.UpdateSpeciesParams(species, params)
			}
		})
		return applyErr
	case CmdPopulation:
		var applyErr error
		s.driver.Do(func(w *sim.World) {
			pop := w.Population()
			if applyErr = mergeParams(cmd.Params, &pop); applyErr == nil {
				w.UpdatePopulation(pop)
			}
		})
		return applyErr
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	return nil
}

// mergeParams overlays a partial bundle onto dst. JSON is valid YAML, so
// the config package's yaml tags name the keys.
func mergeParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing params")
	}
	if err := yaml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding params: %w", err)
	}
	return nil
}
