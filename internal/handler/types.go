package handler

import "github.com/google/uuid"

type registerRequest struct {
	Username    string  `json:"username"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Password    string  `json:"password"`
}

type loginRequest struct {
	Username    string `json:"username,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Password    string `json:"password" binding:"required"`
}

type logoutRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type requestPayload struct {
	Status             string     `json:"status,omitempty"`
	PhoneModel         string     `json:"phone_model" binding:"required"`
	ProblemDescription string     `json:"problem_description" binding:"required"`
	Customer           *uuid.UUID `json:"customer,omitempty"`
}

type invoicePayload struct {
	Price   float64   `json:"price" binding:"required"`
	Status  string    `json:"status,omitempty"`
	Request uuid.UUID `json:"request" binding:"required"`
}

type registeredResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Role        string  `json:"role"`
}
