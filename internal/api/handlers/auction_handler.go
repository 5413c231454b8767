package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
	"github.com/muhzahjr07/lpl-auction-system/internal/services"
	"github.com/muhzahjr07/lpl-auction-system/pkg/logger"
)

type AuctionHandler struct {
	manager    *services.AuctionManager
	bidService *services.BidService
	settlement *services.SettlementEngine
	log        logger.Logger
}

func NewAuctionHandler(manager *services.AuctionManager, bidService *services.BidService,
	settlement *services.SettlementEngine, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		manager:    manager,
		bidService: bidService,
		settlement: settlement,
		log:        log,
	}
}

type StartRoundRequest struct {
	PlayerID int64 `json:"player_id"`
}

type PlaceBidRequest struct {
	TeamID   int64   `json:"team_id"`
	PlayerID int64   `json:"player_id"`
	Amount   float64 `json:"amount"`
}

type SoldRequest struct {
	TeamID      int64   `json:"team_id"`
	PlayerID    int64   `json:"player_id"`
	FinalAmount float64 `json:"final_amount"`
}

type MarkUnsoldRequest struct {
	PlayerID int64 `json:"player_id"`
	Retain   bool  `json:"retain"`
}

type PlayerResponse struct {
	PlayerID  int64    `json:"player_id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Country   string   `json:"country"`
	BasePrice float64  `json:"base_price"`
	Status    string   `json:"status"`
	SoldPrice *float64 `json:"sold_price,omitempty"`
	TeamID    *int64   `json:"team_id,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
}

// GetState returns the round snapshot, including the leader's display
// identity for scoreboard clients.
func (h *AuctionHandler) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.manager.Snapshot())
}

func (h *AuctionHandler) GetUnsoldPlayers(c echo.Context) error {
	players, err := h.manager.UnsoldPlayers(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to list unsold players", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to load players"})
	}

	resp := make([]PlayerResponse, 0, len(players))
	for _, p := range players {
		resp = append(resp, toPlayerResponse(p))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuctionHandler) StartRound(c echo.Context) error {
	var req StartRoundRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	snap, err := h.manager.OpenRound(c.Request().Context(), req.PlayerID)
	if err != nil {
		return h.auctionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Round started",
		"state":   snap,
	})
}

// PlaceBid is the REST fallback for clients without a socket. Accepted
// attempts have no direct reply beyond 202; the broadcast carries the
// new price.
func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid amount"})
	}

	if err := h.bidService.PlaceBid(c.Request().Context(), req.TeamID, req.PlayerID, req.Amount); err != nil {
		return h.auctionError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *AuctionHandler) SellPlayer(c echo.Context) error {
	var req SoldRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	if err := h.settlement.SellPlayer(c.Request().Context(), req.TeamID, req.PlayerID, req.FinalAmount); err != nil {
		return h.auctionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Sale confirmed"})
}

func (h *AuctionHandler) MarkUnsold(c echo.Context) error {
	var req MarkUnsoldRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	if err := h.settlement.MarkUnsold(c.Request().Context(), req.PlayerID, req.Retain); err != nil {
		return h.auctionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Player marked unsold"})
}

func (h *AuctionHandler) ResetState(c echo.Context) error {
	if err := h.settlement.Reset(c.Request().Context()); err != nil {
		return h.auctionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Auction state reset",
		"state":   h.manager.Snapshot(),
	})
}

// auctionError maps the domain taxonomy to a status plus the short
// client-safe message. Internal detail stays in the logs.
func (h *AuctionHandler) auctionError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoActiveRound), errors.Is(err, domain.ErrBidTooLow):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrBudgetExceeded):
		status = http.StatusUnprocessableEntity
	default:
		h.log.Error("Auction operation failed", "path", c.Path(), "error", err)
	}
	return c.JSON(status, map[string]string{"message": domain.UserMessage(err)})
}

func toPlayerResponse(p *domain.Player) PlayerResponse {
	return PlayerResponse{
		PlayerID:  p.ID,
		Name:      p.Name,
		Role:      string(p.Role),
		Country:   p.Country,
		BasePrice: p.BasePrice,
		Status:    string(p.Status),
		SoldPrice: p.SoldPrice,
		TeamID:    p.TeamID,
		ImageURL:  p.ImageURL,
	}
}
