package service

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/getAlby/x402hub.go/chain"
	"github.com/getAlby/x402hub.go/lib/verification"
	"github.com/skip2/go-qrcode"
)

const qrCodeSize = 256

// PaymentQRCode renders the EIP-681 payment link of a payable request as PNG.
func (svc *X402Service) PaymentQRCode(ctx context.Context, id string) (png []byte, uri string, err error) {
	view, err := svc.ViewRequest(ctx, id)
	if err != nil {
		return nil, "", err
	}
	switch view.State {
	case StatePaid:
		return nil, "", ErrAlreadyPaid
	case StateExpired:
		return nil, "", ErrExpired
	}
	req := view.Request
	if !common.IsHexAddress(req.Receiver) {
		return nil, "", invalidField("receiver", "is not a hex address")
	}
	uri, err = svc.Chain.PaymentURI(ctx, req.Network, req.Token, req.Receiver, req.Amount)
	switch {
	case errors.Is(err, chain.ErrUnsupportedToken):
		return nil, "", invalidField("token", "is not supported on "+req.Network)
	case err != nil:
		return nil, "", &verification.InfraError{Network: req.Network, Err: err}
	}
	png, err = qrcode.Encode(uri, qrcode.Medium, qrCodeSize)
	if err != nil {
		return nil, "", err
	}
	return png, uri, nil
}
