package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Gatofitnees/Appmovil-sub001/internal/dto"
	"github.com/Gatofitnees/Appmovil-sub001/internal/service"
)

type ReceiptHandler struct {
	receiptService service.ReceiptService
	logger         *zap.Logger
}

func NewReceiptHandler(receiptService service.ReceiptService, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		logger:         logger,
	}
}

func (h *ReceiptHandler) VerifyAppStoreReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyAppleReceiptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.VerifyReceiptResponse{
			Success: false,
			Error:   "invalid request body",
		})
	}
	if req.Receipt == "" || req.UserID == "" || req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, dto.VerifyReceiptResponse{
			Success: false,
			Error:   "Missing required fields: receipt, userId, productId",
		})
	}

	sub, err := h.receiptService.VerifyAppStoreReceipt(ctx, &req)
	if err != nil {
		h.logger.Warn("apple receipt rejected",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, dto.VerifyReceiptResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, dto.VerifyReceiptResponse{
		Success:      true,
		Subscription: sub,
	})
}

func (h *ReceiptHandler) VerifyPlayStoreReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyPlayStoreReceiptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.VerifyReceiptResponse{
			Success: false,
			Error:   "invalid request body",
		})
	}
	if req.PackageName == "" || req.SubscriptionID == "" || req.Token == "" ||
		req.UserID == "" || req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, dto.VerifyReceiptResponse{
			Success: false,
			Error:   "Missing required fields",
		})
	}

	sub, err := h.receiptService.VerifyPlayStoreReceipt(ctx, &req)
	if err != nil {
		h.logger.Warn("google play receipt rejected",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, dto.VerifyReceiptResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, dto.VerifyReceiptResponse{
		Success:      true,
		Subscription: sub,
	})
}
