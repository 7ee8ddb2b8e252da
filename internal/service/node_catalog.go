package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/mod/semver"

	"github.com/svcgen/svcgen/internal/domain"
)

// NodeCatalog node.js 版本目录接口
// 发布索引在实例生命周期内只拉取一次
type NodeCatalog interface {
	// Releases 返回按版本降序排列的发布列表
	Releases(ctx context.Context) ([]domain.NodeRelease, error)

	// Resolve 把符号化版本标签解析为具体版本号
	// latest/node -> 最新版本；lts/stable -> 最新 LTS 版本；
	// 其他标签按版本前缀匹配（如 20 或 20.11）
	Resolve(ctx context.Context, tag string) (string, error)
}

// nodeCatalog node.js 版本目录实现
type nodeCatalog struct {
	indexURL   string
	httpClient *http.Client

	mu    sync.Mutex
	cache []domain.NodeRelease
}

// NewNodeCatalog 创建 node.js 版本目录实例
func NewNodeCatalog(indexURL string) NodeCatalog {
	return &nodeCatalog{
		indexURL:   indexURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Releases 返回按版本降序排列的发布列表
func (c *nodeCatalog) Releases(ctx context.Context) ([]domain.NodeRelease, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache != nil {
		return c.cache, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.indexURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取 node 版本索引失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("node 版本索引返回错误: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	// lts 字段为 false 或 LTS 代号字符串
	var raw []struct {
		Version string          `json:"version"`
		LTS     json.RawMessage `json:"lts"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("解析 node 版本索引失败: %w", err)
	}

	releases := make([]domain.NodeRelease, 0, len(raw))
	for _, entry := range raw {
		release := domain.NodeRelease{Version: entry.Version}
		var ltsName string
		if err := json.Unmarshal(entry.LTS, &ltsName); err == nil && ltsName != "" {
			release.LTS = true
			release.LTSName = ltsName
		}
		releases = append(releases, release)
	}

	// 按语义化版本降序排序
	sort.SliceStable(releases, func(i, j int) bool {
		return semverCompare(releases[i].Version, releases[j].Version) < 0
	})

	c.cache = releases
	return releases, nil
}

// Resolve 把符号化版本标签解析为具体版本号
func (c *nodeCatalog) Resolve(ctx context.Context, tag string) (string, error) {
	releases, err := c.Releases(ctx)
	if err != nil {
		return "", err
	}
	if len(releases) == 0 {
		return "", fmt.Errorf("node 版本索引为空")
	}

	switch tag {
	case "latest", "node":
		return releases[0].Version, nil
	case "lts", "stable":
		for _, release := range releases {
			if release.LTS {
				return release.Version, nil
			}
		}
		return "", fmt.Errorf("未找到 LTS 版本")
	}

	// 版本前缀匹配
	prefixRe, err := regexp.Compile(`^v?` + regexp.QuoteMeta(strings.TrimPrefix(tag, "v")) + `(\.|$)`)
	if err != nil {
		return "", fmt.Errorf("无效的版本标签: %s", tag)
	}
	for _, release := range releases {
		if prefixRe.MatchString(release.Version) {
			return release.Version, nil
		}
	}

	return "", fmt.Errorf("未找到匹配版本标签 %s 的 node 版本", tag)
}

// semverCompare 语义化版本降序比较
// a 比 b 新时返回 -1，相等返回 0，a 比 b 旧时返回 1，
// 与目录的降序排列一致
func semverCompare(a, b string) int {
	va := "v" + strings.TrimPrefix(a, "v")
	vb := "v" + strings.TrimPrefix(b, "v")
	return -semver.Compare(va, vb)
}

// ToTravisTags 把 node 版本标签转换为 .travis.yml 的版本条目
// latest/node -> node，lts/stable -> lts/*，其余原样保留；
// 去重并保持首次出现的顺序
func ToTravisTags(tags []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, tag := range tags {
		var travisTag string
		switch tag {
		case "latest", "node":
			travisTag = "node"
		case "lts", "stable":
			travisTag = "lts/*"
		default:
			travisTag = tag
		}

		if seen[travisTag] {
			continue
		}
		seen[travisTag] = true
		result = append(result, travisTag)
	}

	return result
}
