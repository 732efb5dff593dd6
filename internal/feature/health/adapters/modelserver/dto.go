package modelserver

// predictRequest は :predict エンドポイントへのリクエストボディです。
type predictRequest struct {
	Instances [][][][3]float32 `json:"instances"`
}

// predictResponse は :predict エンドポイントのレスポンスボディです。
type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

type modelStatusResponse struct {
	ModelVersionStatus []struct {
		Version string `json:"version"`
		State   string `json:"state"`
	} `json:"model_version_status"`
}
