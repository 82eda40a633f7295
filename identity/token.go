// Package identity extracts the patient and proxy NHS numbers from the
// composite identity token supplied by the upstream API gateway.
package identity

import (
	"github.com/NHSDigital/im1-pfs-auth/forward"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// The upstream gateway issues RS512-signed tokens and has already verified
// them; claims are read without signature verification on purpose.
var signatureAlgorithms = []jose.SignatureAlgorithm{jose.RS512}

// requiredProofingLevel is the only identity proofing level accepted for the
// acting (proxy) user.
const requiredProofingLevel = "P9"

// allowedVotLevels are the accepted verification-of-trust codes for the acting user.
var allowedVotLevels = map[string]bool{
	"P9.Cp.Cd": true,
	"P9.Cp.Ck": true,
	"P9.Cm":    true,
}

type compositeClaims struct {
	NHSNumber string `json:"nhs_number"`
	Act       struct {
		// Sub carries the acting user's own token, nested inside the composite one.
		Sub string `json:"sub"`
	} `json:"act"`
}

type actingUserClaims struct {
	IdentityProofingLevel string `json:"identity_proofing_level"`
	Vot                   string `json:"vot"`
	NHSNumber             string `json:"nhs_number"`
}

// GetNHSNumbersFromToken decodes the composite token and returns the patient
// and proxy NHS numbers. The acting user's nested token must show P9 identity
// proofing and an allow-listed vot code. All failures are AccessDenied, with
// the specific cause kept as internal detail.
func GetNHSNumbersFromToken(compositeToken string) (patientNHSNumber string, proxyNHSNumber string, err error) {
	var outer compositeClaims
	if err := decodeClaims(compositeToken, &outer); err != nil {
		return "", "", err
	}
	if outer.NHSNumber == "" {
		return "", "", forward.AccessDenied("Failed to retrieve nhs number from token")
	}

	var actingUser actingUserClaims
	if err := decodeClaims(outer.Act.Sub, &actingUser); err != nil {
		return "", "", err
	}
	if actingUser.IdentityProofingLevel != requiredProofingLevel {
		return "", "", forward.AccessDenied("Logged in user is not P9 proofing level")
	}
	if !allowedVotLevels[actingUser.Vot] {
		return "", "", forward.AccessDenied("Logged in user has incorrect vot level")
	}
	if actingUser.NHSNumber == "" {
		return "", "", forward.AccessDenied("Failed to retrieve nhs number from token")
	}

	return outer.NHSNumber, actingUser.NHSNumber, nil
}

// decodeClaims reads a token's claims without verifying its signature.
func decodeClaims(rawToken string, claims any) error {
	token, err := jwt.ParseSigned(rawToken, signatureAlgorithms)
	if err != nil {
		return forward.AccessDenied("Failed to decode token")
	}
	if err := token.UnsafeClaimsWithoutVerification(claims); err != nil {
		return forward.AccessDenied("Failed to decode token")
	}
	return nil
}
