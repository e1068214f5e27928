package request

type SaveLayoutRequest struct {
	Order []string `json:"order" binding:"required"`
}

type UpdateModuleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}
