package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"restaurant-dashboard/internal/domain"
)

func (c *Client) FetchDishes(ctx context.Context) ([]domain.Dish, error) {
	return getList[domain.Dish](ctx, c, c.tenantPath("Dish"))
}

func (c *Client) CreateDish(ctx context.Context, d domain.Dish) (domain.Dish, error) {
	out := d
	err := c.doJSON(ctx, http.MethodPost, c.tenantPath("Dish"), d, &out)
	return out, err
}

func (c *Client) UpdateDish(ctx context.Context, id domain.ID, d domain.Dish) (domain.Dish, error) {
	out := d
	err := c.doJSON(ctx, http.MethodPut, c.tenantPath("Dish", id.String()), d, &out)
	if out.ID == "" {
		out.ID = id
	}
	return out, err
}

func (c *Client) DeleteDish(ctx context.Context, id domain.ID) error {
	return c.doJSON(ctx, http.MethodDelete, c.tenantPath("Dish", id.String()), nil, nil)
}

// UploadDishImage posts the file as multipart field "image" and returns the stored URL.
func (c *Client) UploadDishImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/Dish/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		URL      string `json:"url"`
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.URL == "" {
		out.URL = out.ImageURL
	}
	return out.URL, nil
}
