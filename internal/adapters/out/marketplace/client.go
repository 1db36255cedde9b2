// Package marketplace reads the marketplace services the fulfillment engine
// depends on but does not own: product listings, saved addresses and the
// seller fee rate that follows from their membership tier.
package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var errNotFound = errors.New("not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

func NewClient(baseURL string, timeout time.Duration, logger logrus.FieldLogger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type productResponse struct {
	ID          string `json:"id"`
	SellerID    string `json:"seller_id"`
	Title       string `json:"title"`
	ImageURL    string `json:"image_url"`
	Condition   string `json:"condition"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	ShippingFee string `json:"shipping_fee"`
	Status      string `json:"status"`
}

type addressResponse struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	Recipient  string `json:"recipient"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type feeRateResponse struct {
	Tier string `json:"tier"`
	Rate string `json:"rate"`
}

// GetProduct returns errs.ObjectNotFoundError for unknown products.
func (c *Client) GetProduct(ctx context.Context, id kernel.UUID) (ports.Product, error) {
	var resp productResponse
	if err := c.get(ctx, "/v1/products/"+url.PathEscape(id.String()), &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return ports.Product{}, errs.NewObjectNotFoundError("product", id.String())
		}
		return ports.Product{}, err
	}

	productID, idErr := kernel.UUIDFromString(resp.ID)
	sellerID, sellerErr := kernel.UUIDFromString(resp.SellerID)
	price, priceErr := kernel.MoneyFromString(resp.Price)
	shipping, shippingErr := moneyOrZero(resp.ShippingFee)
	if err := errors.Join(idErr, sellerErr, priceErr, shippingErr); err != nil {
		return ports.Product{}, pkgerrors.Wrapf(err, "catalog returned a malformed product %s", id)
	}

	return ports.Product{
		ID:          productID,
		SellerID:    sellerID,
		Title:       resp.Title,
		ImageURL:    resp.ImageURL,
		Condition:   resp.Condition,
		Category:    resp.Category,
		Price:       price,
		ShippingFee: shipping,
		Status:      resp.Status,
	}, nil
}

// GetAddress returns errs.ObjectNotFoundError for unknown addresses.
func (c *Client) GetAddress(ctx context.Context, id kernel.UUID) (ports.Address, error) {
	var resp addressResponse
	if err := c.get(ctx, "/v1/addresses/"+url.PathEscape(id.String()), &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return ports.Address{}, errs.NewObjectNotFoundError("address", id.String())
		}
		return ports.Address{}, err
	}

	addressID, idErr := kernel.UUIDFromString(resp.ID)
	ownerID, ownerErr := kernel.UUIDFromString(resp.OwnerID)
	if err := errors.Join(idErr, ownerErr); err != nil {
		return ports.Address{}, pkgerrors.Wrapf(err, "address book returned a malformed address %s", id)
	}

	return ports.Address{
		ID:         addressID,
		OwnerID:    ownerID,
		Recipient:  resp.Recipient,
		Street:     resp.Street,
		City:       resp.City,
		Region:     resp.Region,
		PostalCode: resp.PostalCode,
		Country:    resp.Country,
		Phone:      resp.Phone,
	}, nil
}

// FeeRate returns the platform fee rate of the seller's current tier.
func (c *Client) FeeRate(ctx context.Context, sellerID kernel.UUID) (kernel.FeeRate, error) {
	var resp feeRateResponse
	if err := c.get(ctx, "/v1/sellers/"+url.PathEscape(sellerID.String())+"/fee-rate", &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return kernel.FeeRate{}, errs.NewObjectNotFoundError("seller", sellerID.String())
		}
		return kernel.FeeRate{}, err
	}

	value, err := decimal.NewFromString(resp.Rate)
	if err != nil {
		return kernel.FeeRate{}, pkgerrors.Wrapf(err, "malformed fee rate for seller %s", sellerID)
	}
	rate, err := kernel.NewFeeRate(value)
	if err != nil {
		return kernel.FeeRate{}, pkgerrors.Wrapf(err, "fee rate of tier %q", resp.Tier)
	}

	c.logger.WithFields(logrus.Fields{
		"seller_id": sellerID.String(),
		"tier":      resp.Tier,
		"rate":      rate.String(),
	}).Debug("seller fee rate resolved")
	return rate, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to send request to %s", path)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("GET %s returned status %d", path, resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrapf(err, "failed to decode response of %s", path)
	}
	return nil
}

func moneyOrZero(s string) (kernel.Money, error) {
	if s == "" {
		return kernel.ZeroMoney(), nil
	}
	return kernel.MoneyFromString(s)
}

var (
	_ ports.Catalog     = (*Client)(nil)
	_ ports.AddressBook = (*Client)(nil)
	_ ports.FeePolicy   = (*Client)(nil)
)
