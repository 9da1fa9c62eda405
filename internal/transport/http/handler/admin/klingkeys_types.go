package admin

// CreateKlingKeyRequest is the request body for adding a Kling credential.
type CreateKlingKeyRequest struct {
	Name           string   `json:"name"`
	AccessKey      string   `json:"access_key"`
	SecretKey      string   `json:"secret_key"`
	Region         string   `json:"region"`  // global or cn
	Purpose        string   `json:"purpose"` // image, video or all
	Enabled        *bool    `json:"enabled"` // defaults to true
	RemainingUnits *float64 `json:"remaining_units"`
	ExpiresIn      *int     `json:"expires_in"` // Seconds until expiry (optional)
}

// UpdateKlingKeyRequest is the request body for updating a Kling
// credential. Nil fields are left unchanged.
type UpdateKlingKeyRequest struct {
	Name           *string  `json:"name"`
	AccessKey      *string  `json:"access_key"`
	SecretKey      *string  `json:"secret_key"`
	Region         *string  `json:"region"`
	Purpose        *string  `json:"purpose"`
	Enabled        *bool    `json:"enabled"`
	RemainingUnits *float64 `json:"remaining_units"`
}
