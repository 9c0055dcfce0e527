package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pixil98/go-gridworld/internal/game"
)

const maxBodySize = 64 << 10

const (
	actionSolvePuzzle = "solvePuzzle"
	actionPickUpItems = "pickUpItems"
)

type roomRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type roomResponse struct {
	Room *game.Room `json:"room"`
}

type playerRequest struct {
	UserId string `json:"userId"`
}

type playerResponse struct {
	PlayerState *game.PlayerState `json:"playerState"`
}

type positionRequest struct {
	UserId string `json:"userId"`
	X      *int   `json:"x"`
	Y      *int   `json:"y"`
	PosX   *int   `json:"pos_x"`
	PosY   *int   `json:"pos_y"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type actionRequest struct {
	Action string `json:"action"`
	RoomX  *int   `json:"roomX"`
	RoomY  *int   `json:"roomY"`
	UserId string `json:"userId"`
	Answer string `json:"answer"`
}

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.X == nil || req.Y == nil {
		writeError(w, r, newBadRequest("Invalid coordinates"))
		return
	}

	room, err := s.rooms.CreateOrFetch(r.Context(), *req.X, *req.Y)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, roomResponse{Room: room})
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.UserId == "" {
		writeError(w, r, newBadRequest("No userId"))
		return
	}

	ps, err := s.players.GetOrCreate(r.Context(), req.UserId)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, playerResponse{PlayerState: ps})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.UserId == "" {
		writeError(w, r, newBadRequest("No userId"))
		return
	}
	if req.X == nil || req.Y == nil || req.PosX == nil || req.PosY == nil {
		writeError(w, r, newBadRequest("Invalid coordinates"))
		return
	}

	_, err := s.players.UpdatePosition(r.Context(), req.UserId, *req.X, *req.Y, *req.PosX, *req.PosY)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.RoomX == nil || req.RoomY == nil || req.UserId == "" {
		writeError(w, r, newBadRequest("Missing room coords or userId"))
		return
	}

	var res game.ActionResult
	var err error
	switch req.Action {
	case actionSolvePuzzle:
		if strings.TrimSpace(req.Answer) == "" {
			writeError(w, r, newBadRequest("No answer provided"))
			return
		}
		res, err = s.engine.SolvePuzzle(r.Context(), *req.RoomX, *req.RoomY, req.UserId, req.Answer)
	case actionPickUpItems:
		res, err = s.engine.PickUpItems(r.Context(), *req.RoomX, *req.RoomY, req.UserId)
	default:
		err = newBadRequest("Invalid action")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// decode reads a JSON body into v. An empty body decodes as an empty object.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return newBadRequest(fmt.Sprintf("Invalid request body: %s", err))
}
