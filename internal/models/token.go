package models

// TokenDetails holds an issued access/refresh token pair together with the
// UUIDs under which both tokens are tracked in the token store.
type TokenDetails struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	AccessUUID   string `json:"-"` // Usually not exposed
	RefreshUUID  string `json:"-"` // Usually not exposed
	AtExpires    int64  `json:"at_expires"`
	RtExpires    int64  `json:"rt_expires"`
}
