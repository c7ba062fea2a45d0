package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"lastmile/internal/core/domain/model/order"
)

// OtpGenerator produces delivery verification codes. Codes come from a CSPRNG
// so they cannot be predicted from previous ones.
type OtpGenerator struct{}

// NewOtpGenerator creates a new OtpGenerator instance.
func NewOtpGenerator() OtpGenerator {
	return OtpGenerator{}
}

// Generate returns a fresh zero-padded numeric code of order.OtpLength digits.
func (g OtpGenerator) Generate() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < order.OtpLength; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	return fmt.Sprintf("%0*d", order.OtpLength, n), nil
}
