package models

// UploadSignature authorizes one direct browser-to-CDN upload.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder"`
}

// UploadSignRequest is the body of POST /api/upload/sign.
type UploadSignRequest struct {
	Folder string `json:"folder"`
}

// UploadResult is a stored media asset.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Format   string `json:"format,omitempty"`
}
