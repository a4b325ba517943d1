package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildPagination(t *testing.T) {
	got := BuildPagination(2, 20, 41)
	if got.TotalPage != 3 || got.Page != 2 || got.Total != 41 {
		t.Fatalf("unexpected pagination: %+v", got)
	}
	if BuildPagination(1, 0, 5).TotalPage != 0 {
		t.Fatalf("zero page size should not divide")
	}
}

func TestWriteErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	WriteError(c, WrapError(CodeConflict, "stock conflict", nil).WithData(gin.H{"product_ids": []uint{1, 2}}))

	var resp struct {
		StatusCode int                    `json:"status_code"`
		Msg        string                 `json:"msg"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != CodeConflict || resp.Msg != "stock conflict" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if resp.Data["request_id"] != "req-9" {
		t.Fatalf("request id missing from data: %v", resp.Data)
	}
	ids, ok := resp.Data["product_ids"].([]interface{})
	if !ok || len(ids) != 2 {
		t.Fatalf("product ids missing from data: %v", resp.Data)
	}
}
