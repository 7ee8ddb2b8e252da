package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/svcgen/svcgen/internal/logger"
)

// GitHubClient GitHub API 客户端接口
type GitHubClient interface {
	// Login 获取令牌对应的登录名
	Login(ctx context.Context) (string, error)

	// CreateRepository 在指定命名空间下创建仓库
	// 命名空间为令牌对应的用户时创建用户仓库，否则视为组织仓库。
	// 令牌无效、命名空间不存在、仓库名已存在均返回错误
	CreateRepository(ctx context.Context, namespace, name, description string, private bool) (*RepositoryInfo, error)
}

// RepositoryInfo 创建仓库后返回的关键信息
type RepositoryInfo struct {
	FullName string `json:"full_name"` // owner/name
	HTMLURL  string `json:"html_url"`  // 网页地址
	SSHURL   string `json:"ssh_url"`   // git@... 地址
	CloneURL string `json:"clone_url"` // https://... 地址
}

// gitHubClient GitHub 客户端实现
type gitHubClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewGitHubClient 创建 GitHub 客户端实例
func NewGitHubClient(baseURL, token string, log logger.Logger) GitHubClient {
	return &gitHubClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// Login 获取令牌对应的登录名
func (c *gitHubClient) Login(ctx context.Context) (string, error) {
	body, err := c.callAPI(ctx, "GET", "/user", nil)
	if err != nil {
		return "", err
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("解析用户信息失败: %w", err)
	}
	return user.Login, nil
}

// CreateRepository 在指定命名空间下创建仓库
func (c *gitHubClient) CreateRepository(ctx context.Context, namespace, name, description string, private bool) (*RepositoryInfo, error) {
	login, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}

	// 用户仓库与组织仓库使用不同的端点
	path := "/user/repos"
	if namespace != "" && namespace != login {
		path = fmt.Sprintf("/orgs/%s/repos", namespace)
	}

	payload := map[string]interface{}{
		"name":        name,
		"description": description,
		"private":     private,
	}

	c.log.Info("创建 GitHub 仓库: namespace=%s, name=%s, private=%v", namespace, name, private)

	body, err := c.callAPI(ctx, "POST", path, payload)
	if err != nil {
		return nil, err
	}

	var repo RepositoryInfo
	if err := json.Unmarshal(body, &repo); err != nil {
		return nil, fmt.Errorf("解析仓库信息失败: %w", err)
	}
	return &repo, nil
}

// callAPI 调用 GitHub API
func (c *gitHubClient) callAPI(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	if c.token == "" {
		return nil, fmt.Errorf("未配置 GitHub 访问令牌")
	}

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
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
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

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	// 解析 API 错误信息
	var apiErr struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &apiErr)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("GitHub 访问令牌无效: %s", apiErr.Message)
	case http.StatusNotFound:
		return nil, fmt.Errorf("GitHub 命名空间不存在或令牌无权访问: %s", apiErr.Message)
	case http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("GitHub 仓库创建失败（仓库名可能已存在）: %s", apiErr.Message)
	default:
		return nil, fmt.Errorf("GitHub API 返回错误: %d, %s", resp.StatusCode, apiErr.Message)
	}
}
