// Package qrcode renders redemption vouchers as QR codes for in-store verification.
package qrcode

import (
	"encoding/json"
	"fmt"

	"loyalty/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type voucherService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// VoucherData represents the QR code data structure
type VoucherData struct {
	RequestID   string `json:"request_id"`
	VoucherCode string `json:"voucher_code"`
	Type        string `json:"type"`
}

// NewVoucherService creates a new voucher QR service instance
func NewVoucherService(size int, errorCorrectionLevel string) service.VoucherService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &voucherService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateVoucherQR renders the voucher for a redemption request as a PNG QR code.
func (s *voucherService) GenerateVoucherQR(requestID uuid.UUID, voucherCode string) ([]byte, error) {
	data := VoucherData{
		RequestID:   requestID.String(),
		VoucherCode: voucherCode,
		Type:        "redemption_voucher",
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal voucher data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseVoucherQR decodes scanned QR data back into the request ID and voucher code.
func (s *voucherService) ParseVoucherQR(qrData string) (uuid.UUID, string, error) {
	var data VoucherData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to unmarshal voucher data: %w", err)
	}

	// Validate type
	if data.Type != "redemption_voucher" {
		return uuid.Nil, "", fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	requestID, err := uuid.Parse(data.RequestID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to parse request ID: %w", err)
	}

	if data.VoucherCode == "" {
		return uuid.Nil, "", fmt.Errorf("voucher code is empty")
	}

	return requestID, data.VoucherCode, nil
}
