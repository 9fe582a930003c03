// file: services/qrcode_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
)

// Mock encoder function (successful)
func mockQRCodeEncoderSuccess(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
	return []byte("qr:" + content), nil
}

// Mock encoder function (failure)
func mockQRCodeEncoderFailure(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
	return nil, errors.New("QR code generation failed")
}

// Test: Generate QR Code Successfully
func TestGenerateQRCode_Success(t *testing.T) {
	data, err := GenerateQRCode("http://localhost:8080", 200, mockQRCodeEncoderSuccess)

	assert.NoError(t, err)
	assert.Equal(t, "qr:http://localhost:8080", string(data))
}

// Test: Fail QR Code Generation Due to Negative Dimensions
func TestGenerateQRCode_InvalidDimensions(t *testing.T) {
	data, err := GenerateQRCode("http://localhost:8080", -100, mockQRCodeEncoderSuccess)

	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, "invalid dimensions: size must be positive", err.Error())
}

// Test: QR Code Generation Fails Due to Encoder Error
func TestGenerateQRCode_EncoderFails(t *testing.T) {
	data, err := GenerateQRCode("http://localhost:8080", 200, mockQRCodeEncoderFailure)

	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, "QR code generation failed", err.Error())
}

// Test: real encoder produces a PNG
func TestGenerateQRCode_RealEncoder(t *testing.T) {
	data, err := GenerateQRCode("http://localhost:8080", 64, qrcode.Encode)

	assert.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}
