package api

import (
	"context"
	"net/http"
	"net/url"
)

// DeliveryAgent is one row of the agents list.
type DeliveryAgent struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	OrderCount int    `json:"orderCount"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// AgentDocument is an uploaded KYC document reference.
type AgentDocument struct {
	DocumentType string `json:"documentType"`
	DocumentURL  string `json:"documentUrl"`
}

// AgentPayload is the nested form used to create or update an agent.
type AgentPayload struct {
	PersonalInfo map[string]string `json:"personalInfo"`
	AddressInfo  map[string]string `json:"addressInfo"`
	VehicleInfo  map[string]string `json:"vehicleInfo"`
	BankInfo     map[string]string `json:"bankInfo"`
	Documents    []AgentDocument   `json:"documents"`
	Status       string            `json:"status"`
}

// AgentDetail is a single agent as returned by GET /admin/delivery-agent/{id}.
type AgentDetail struct {
	ID string `json:"id"`
	AgentPayload
}

func (c *Client) DeliveryAgents(ctx context.Context) ([]DeliveryAgent, error) {
	var env Envelope[[]DeliveryAgent]
	if err := c.Do(ctx, http.MethodGet, "admin/delivery-agents", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) DeliveryAgent(ctx context.Context, id string) (*AgentDetail, error) {
	var env Envelope[AgentDetail]
	if err := c.Do(ctx, http.MethodGet, "admin/delivery-agent/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) CreateDeliveryAgent(ctx context.Context, payload AgentPayload) (*AgentDetail, error) {
	var env Envelope[AgentDetail]
	if err := c.Do(ctx, http.MethodPost, "admin/delivery-agent", payload, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) UpdateDeliveryAgent(ctx context.Context, id string, payload AgentPayload) (*AgentDetail, error) {
	var env Envelope[AgentDetail]
	if err := c.Do(ctx, http.MethodPut, "admin/delivery-agent/"+url.PathEscape(id), payload, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
