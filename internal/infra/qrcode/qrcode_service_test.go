package qrcode

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherService_GenerateVoucherQR(t *testing.T) {
	svc := NewVoucherService(256, "M")

	png, err := svc.GenerateVoucherQR(uuid.New(), "abc123")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestVoucherService_ParseVoucherQR_RoundTrip(t *testing.T) {
	svc := NewVoucherService(256, "M")
	requestID := uuid.New()

	payload, err := json.Marshal(VoucherData{
		RequestID:   requestID.String(),
		VoucherCode: "abc123",
		Type:        "redemption_voucher",
	})
	require.NoError(t, err)

	parsedID, code, err := svc.ParseVoucherQR(string(payload))
	require.NoError(t, err)
	assert.Equal(t, requestID, parsedID)
	assert.Equal(t, "abc123", code)
}

func TestVoucherService_ParseVoucherQR_Rejections(t *testing.T) {
	svc := NewVoucherService(256, "M")

	_, _, err := svc.ParseVoucherQR("not json")
	assert.Error(t, err)

	wrongType, err := json.Marshal(VoucherData{
		RequestID:   uuid.New().String(),
		VoucherCode: "abc123",
		Type:        "gift_card",
	})
	require.NoError(t, err)
	_, _, err = svc.ParseVoucherQR(string(wrongType))
	assert.Error(t, err)

	emptyCode, err := json.Marshal(VoucherData{
		RequestID:   uuid.New().String(),
		VoucherCode: "",
		Type:        "redemption_voucher",
	})
	require.NoError(t, err)
	_, _, err = svc.ParseVoucherQR(string(emptyCode))
	assert.Error(t, err)

	badID, err := json.Marshal(VoucherData{
		RequestID:   "not-a-uuid",
		VoucherCode: "abc123",
		Type:        "redemption_voucher",
	})
	require.NoError(t, err)
	_, _, err = svc.ParseVoucherQR(string(badID))
	assert.Error(t, err)
}

func TestNewVoucherService_UnknownCorrectionLevelDefaultsToMedium(t *testing.T) {
	svc := NewVoucherService(256, "X").(*voucherService)
	assert.Equal(t, NewVoucherService(256, "M").(*voucherService).errorCorrectionLevel, svc.errorCorrectionLevel)
}
