package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/svcgen/svcgen/internal/logger"
)

// TravisClient Travis CI API 客户端接口
type TravisClient interface {
	// FetchRepoKey 获取仓库的 RSA 公钥
	FetchRepoKey(ctx context.Context, owner, name string) (*rsa.PublicKey, error)

	// EncryptSecret 加密一个环境变量
	// 对字面量 NAME="value" 做 PKCS#1 v1.5 加密后 base64 编码，
	// 结果可直接写入 .travis.yml 的 secure 条目
	EncryptSecret(key *rsa.PublicKey, name, value string) (string, error)

	// EnableBuilds 为仓库启用构建
	// 先触发一次同步（固定次数、固定间隔重试），再查找仓库 hook 并激活。
	// 同步始终失败或找不到匹配 hook 时返回 false，不报错（调用方提示手动完成）
	EnableBuilds(ctx context.Context, owner, name string) (bool, error)
}

// travisClient Travis 客户端实现
type travisClient struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	syncRetries int
	syncDelay   time.Duration
	log         logger.Logger
}

// NewTravisClient 创建 Travis 客户端实例
func NewTravisClient(baseURL, token string, log logger.Logger) TravisClient {
	return &travisClient{
		baseURL:     baseURL,
		token:       token,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		syncRetries: 5,
		syncDelay:   time.Second,
		log:         log,
	}
}

// FetchRepoKey 获取仓库的 RSA 公钥
func (c *travisClient) FetchRepoKey(ctx context.Context, owner, name string) (*rsa.PublicKey, error) {
	body, err := c.callAPI(ctx, "GET", fmt.Sprintf("/repos/%s/%s/key", owner, name), nil)
	if err != nil {
		return nil, fmt.Errorf("获取 Travis 仓库公钥失败: %w", err)
	}

	var result struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("解析公钥响应失败: %w", err)
	}
	if result.Key == "" {
		return nil, fmt.Errorf("Travis 未返回仓库公钥")
	}

	return parsePublicKey(result.Key)
}

// parsePublicKey 解析 PEM 编码的 RSA 公钥
// 兼容 PKCS#1 与 PKIX 两种编码
func parsePublicKey(pemText string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("无效的 PEM 公钥")
	}

	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("解析公钥失败: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("公钥不是 RSA 类型")
	}
	return key, nil
}

// EncryptSecret 加密一个环境变量
func (c *travisClient) EncryptSecret(key *rsa.PublicKey, name, value string) (string, error) {
	if key == nil {
		return "", fmt.Errorf("公钥不能为空")
	}

	plaintext := fmt.Sprintf(`%s="%s"`, name, value)
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, key, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("加密环境变量失败: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// EnableBuilds 为仓库启用构建
func (c *travisClient) EnableBuilds(ctx context.Context, owner, name string) (bool, error) {
	// 触发同步，固定次数、固定间隔重试
	synced := false
	for i := 0; i < c.syncRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(c.syncDelay):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		if _, err := c.callAPI(ctx, "POST", "/users/sync", nil); err != nil {
			c.log.Warn("Travis 同步失败（第 %d 次）: %v", i+1, err)
			continue
		}
		synced = true
		break
	}
	if !synced {
		c.log.Warn("Travis 同步重试 %d 次后仍然失败", c.syncRetries)
		return false, nil
	}

	// 查找匹配的 hook
	body, err := c.callAPI(ctx, "GET", "/hooks", nil)
	if err != nil {
		c.log.Warn("获取 Travis hook 列表失败: %v", err)
		return false, nil
	}

	var result struct {
		Hooks []struct {
			ID        int    `json:"id"`
			Name      string `json:"name"`
			OwnerName string `json:"owner_name"`
			Active    bool   `json:"active"`
		} `json:"hooks"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		c.log.Warn("解析 Travis hook 列表失败: %v", err)
		return false, nil
	}

	for _, hook := range result.Hooks {
		if hook.OwnerName != owner || hook.Name != name {
			continue
		}
		if hook.Active {
			return true, nil
		}

		payload := map[string]interface{}{
			"hook": map[string]interface{}{
				"id":     hook.ID,
				"active": true,
			},
		}
		if _, err := c.callAPI(ctx, "PUT", fmt.Sprintf("/hooks/%d", hook.ID), payload); err != nil {
			c.log.Warn("激活 Travis hook 失败: %v", err)
			return false, nil
		}
		return true, nil
	}

	c.log.Warn("未找到仓库 %s/%s 对应的 Travis hook", owner, name)
	return false, nil
}

// callAPI 调用 Travis API
func (c *travisClient) callAPI(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("序列化请求体失败: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Travis API 返回错误: %d, %s", resp.StatusCode, string(body))
	}

	return body, nil
}
