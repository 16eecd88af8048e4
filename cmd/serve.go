package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/fretmotion/fretmotion/model"
	"github.com/fretmotion/fretmotion/pipeline"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the pipeline over http",
	Long:  `Serves the pipeline over http`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// runState is the control-plane view of one run: status, debounced
// progress, and eventually the result. Guarded by server.mu.
type runState struct {
	response model.RunResponse
	done     int
	total    int
}

type server struct {
	mu   sync.Mutex
	busy bool
	runs map[string]*runState
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, 400, model.ErrorResponse{Error: "could not read request body"})
		return
	}

	var input model.RunRequestBody
	if err := json.Unmarshal(reqBody, &input); err != nil {
		writeJSON(w, 400, model.ErrorResponse{Error: "could not parse request body: " + err.Error()})
		return
	}
	if input.File == "" {
		writeJSON(w, 400, model.ErrorResponse{Error: "file is required"})
		return
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		writeJSON(w, 409, model.ErrorResponse{Error: "a run is already in progress"})
		return
	}
	s.busy = true
	id := uuid.NewString()
	state := &runState{response: model.RunResponse{ID: id, Status: "running"}}
	s.runs[id] = state
	s.mu.Unlock()

	go s.run(id, input)

	writeJSON(w, 202, state.response)
}

func (s *server) run(id string, input model.RunRequestBody) {
	deb := debounce.New(250 * time.Millisecond)
	progress := func(done, total int) {
		deb(func() {
			s.mu.Lock()
			if state := s.runs[id]; state != nil {
				state.done = done
				state.total = total
			}
			s.mu.Unlock()
		})
	}

	res, err := pipeline.Run(cfg, pipeline.Options{
		File:     input.File,
		Tracks:   input.Tracks,
		Channel:  input.Channel,
		Progress: progress,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	state := s.runs[id]
	if state == nil {
		return
	}
	if err != nil {
		state.response.Status = "failed"
		state.response.Detail = err.Error()
		return
	}
	state.response.Status = "done"
	state.response.Result = res
	state.done = state.total
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	state := s.runs[id]
	var resp model.RunResponse
	if state != nil {
		resp = state.response
		if resp.Status == "running" && state.total > 0 {
			resp.Detail = fmt.Sprintf("%v of %v groups", state.done, state.total)
		}
	}
	s.mu.Unlock()

	if state == nil {
		writeJSON(w, 404, model.ErrorResponse{Error: "no such run"})
		return
	}
	writeJSON(w, 200, resp)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

func serve() {
	s := &server{runs: make(map[string]*runState)}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/runs", s.handleCreateRun).Methods("POST")
	router.HandleFunc("/runs/{id}", s.handleGetRun).Methods("GET")
	router.HandleFunc("/health", handleHealth).Methods("GET")

	handler := cors.Default().Handler(router)
	log.Fatal(http.ListenAndServe(":8080", handler))
}
