/*
 * @module api/middleware/apikey_auth
 * @description API密钥鉴权中间件，对管理类接口校验X-API-Key请求头
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference ai_docs/backend_requirements.md
 * @stateFlow 密钥提取 -> bcrypt哈希比对 -> 下一个处理器
 * @rules 密钥只以bcrypt哈希形式配置在环境变量中，未配置哈希时管理接口全部拒绝
 * @dependencies golang.org/x/crypto/bcrypt, net/http
 * @refs api/routes.go
 */

package middleware

import (
	"net/http"
	"os"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

// apiKeyHeader 管理接口密钥请求头
const apiKeyHeader = "X-API-Key"

// APIKeyAuth 管理接口鉴权中间件
func APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hash := os.Getenv("ADMIN_API_KEY_HASH")
		if hash == "" {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, map[string]interface{}{
				"status": http.StatusForbidden,
				"msg":    "管理接口未配置访问密钥",
			})
			return
		}

		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]interface{}{
				"status": http.StatusUnauthorized,
				"msg":    "缺少API密钥",
			})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]interface{}{
				"status": http.StatusUnauthorized,
				"msg":    "API密钥无效",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
