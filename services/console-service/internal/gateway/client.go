package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/model"
)

// Client talks to the remote booking API. It owns no state beyond the
// HTTP client; callers decide what to do with results.
type Client struct {
	baseURL string
	status  string
	http    *http.Client
}

type Config struct {
	BaseURL      string
	StatusFilter string        // defaults to "completed"
	Timeout      time.Duration // defaults to 10s
}

func NewClient(cfg Config) *Client {
	status := strings.TrimSpace(cfg.StatusFilter)
	if status == "" {
		status = string(model.StatusCompleted)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		status:  status,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type listEnvelope struct {
	AllAppointments []wireAppointment `json:"allAppointments"`
}

type wireAppointment struct {
	ID        wireID       `json:"id"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	Service   wireService  `json:"service"`
	Address   wireAddress  `json:"address"`
	BookedBy  wireCustomer `json:"bookedBy"`
}

type wireService struct {
	ID    wireID  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type wireAddress struct {
	State    string `json:"state"`
	Area     string `json:"area"`
	District string `json:"district"`
	Landmark string `json:"landmark"`
}

type wireCustomer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phoneNumber"`
	Email     string `json:"email"`
}

// wireID accepts both numeric and string ids; the booking API has shipped both.
type wireID string

func (id *wireID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = wireID(n.String())
	return nil
}

// List fetches all appointments matching the configured status filter.
// A null or absent payload is an empty collection, not an error.
func (c *Client) List(ctx context.Context) ([]model.Appointment, error) {
	endpoint := c.baseURL + "/api/v1/appointments?status=" + url.QueryEscape(c.status)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnexpected, cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp)
	}

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &Error{Kind: KindUnexpected, cause: err}
	}

	out := make([]model.Appointment, 0, len(envelope.AllAppointments))
	for _, w := range envelope.AllAppointments {
		out = append(out, model.Appointment{
			ID:        string(w.ID),
			Status:    model.Status(strings.ToLower(w.Status)),
			CreatedAt: w.CreatedAt,
			Service: model.Service{
				ID:    string(w.Service.ID),
				Title: w.Service.Title,
				Price: w.Service.Price,
			},
			Address: model.Address{
				State:    w.Address.State,
				Area:     w.Address.Area,
				District: w.Address.District,
				Landmark: w.Address.Landmark,
			},
			BookedBy: model.Customer{
				FirstName: w.BookedBy.FirstName,
				LastName:  w.BookedBy.LastName,
				Phone:     w.BookedBy.Phone,
				Email:     w.BookedBy.Email,
			},
		})
	}
	return out, nil
}

// Delete removes one appointment by id. Any 2xx response is a success.
func (c *Client) Delete(ctx context.Context, id string) error {
	endpoint := c.baseURL + "/api/v1/appointments/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return &Error{Kind: KindUnexpected, cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serverError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func serverError(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	return &Error{Kind: KindServer, StatusCode: resp.StatusCode, Message: strings.TrimSpace(msg)}
}
