package service

import (
	"github.com/google/uuid"
)

// VoucherService defines the interface for redemption voucher QR generation and parsing.
type VoucherService interface {
	// GenerateVoucherQR renders the voucher for a redemption request as a PNG QR code.
	GenerateVoucherQR(requestID uuid.UUID, voucherCode string) ([]byte, error)

	// ParseVoucherQR decodes scanned QR data back into the request ID and voucher code.
	ParseVoucherQR(qrData string) (uuid.UUID, string, error)
}
