package handler

import (
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projectdesk/internal/apperr"
	"projectdesk/internal/transport/http/middleware"
	resp "projectdesk/internal/transport/http/response"
	"projectdesk/pkg/utils"
)

// fail 业务错误原样返回；5xx 与未知错误只回generic，细节落日志
func fail(c *gin.Context, l *zap.Logger, err error) {
	var ae *apperr.E
	if errors.As(err, &ae) && ae.Code < 500 {
		resp.Error(c, ae.Code, ae.Msg)
		return
	}
	fields := []zap.Field{
		zap.String("rid", middleware.RequestIDFrom(c)),
		zap.String("path", c.Request.URL.Path),
	}
	if ae != nil {
		l.Error(ae.Msg, append(fields, zap.Error(ae.Err))...)
	} else {
		l.Error("unhandled error", append(fields, zap.Error(err))...)
	}
	resp.Error(c, resp.CodeServerError, "internal error")
}

// stageFile 把 multipart 文件落到本地暂存目录，返回路径
func stageFile(c *gin.Context, fh *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, utils.NewID()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// cleanupStaged 兜底清理；上传器正常路径下已删过，重复 Remove 无害
func cleanupStaged(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
