package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laundrify-backend/internal/model"
)

// FloorResponse summarizes one floor for the list endpoint.
type FloorResponse struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	TotalMachines     int    `json:"totalMachines"`
	AvailableMachines int    `json:"availableMachines"`
}

func summarizeFloors(floors []model.Floor) []FloorResponse {
	responses := make([]FloorResponse, 0, len(floors))
	for _, floor := range floors {
		available := 0
		for _, m := range floor.Machines {
			if m.Status == model.StatusAvailable {
				available++
			}
		}
		responses = append(responses, FloorResponse{
			ID:                floor.ID,
			Name:              floor.Name,
			TotalMachines:     len(floor.Machines),
			AvailableMachines: available,
		})
	}
	return responses
}

// GetFloors handles the GET /api/floors request.
func (h *Handler) GetFloors(c *gin.Context) {
	c.JSON(http.StatusOK, summarizeFloors(h.engine.Floors()))
}

// GetFloorMachines handles the GET /api/floors/{floor_id}/machines request.
func (h *Handler) GetFloorMachines(c *gin.Context) {
	floorID, err := strconv.Atoi(c.Param("floor_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid floor ID"})
		return
	}

	machines, ok := h.engine.MachinesForFloor(floorID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Floor not found"})
		return
	}
	c.JSON(http.StatusOK, machines)
}

// StreamFloors handles GET /api/floors/stream: a server-sent event
// stream carrying the full roster on every snapshot update, starting
// with the current state.
func (h *Handler) StreamFloors(c *gin.Context) {
	updates := h.engine.Watch()
	defer h.engine.Unwatch(updates)

	c.SSEvent("floors", h.engine.Floors())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case floors, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("floors", floors)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
