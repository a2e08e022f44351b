package handler

// Request payloads for the registry's HTTP surface.

type MintRequest struct {
	AreaID           uint64   `json:"area_id"`
	LatitudeE6       int64    `json:"latitude_e6"`
	LongitudeE6      int64    `json:"longitude_e6"`
	Description      string   `json:"description"`
	ImageRef         string   `json:"image_ref"`
	Goals            []string `json:"goals"`
	RoyaltyBps       uint16   `json:"royalty_bps"`
	RoyaltyRecipient string   `json:"royalty_recipient"`
	Recipient        string   `json:"recipient"`
	Tags             []string `json:"tags,omitempty"`
}

type TransferRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
}

type UpdateMetadataRequest struct {
	Description string `json:"description"`
	ImageRef    string `json:"image_ref"`
}

type UpdateGoalsRequest struct {
	Goals []string `json:"goals"`
}

type UpdateStatusRequest struct {
	Label string `json:"label"`
}

type AddTagsRequest struct {
	Tags []string `json:"tags"`
}

type AddMinterRequest struct {
	Identity string `json:"identity"`
}

type SetAdministratorRequest struct {
	Identity string `json:"identity"`
}
