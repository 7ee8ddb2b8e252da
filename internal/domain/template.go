package domain

// Template 表示一个项目模板
type Template struct {
	Name        string   `json:"name"`        // 模板名称
	Path        string   `json:"path"`        // 模板路径
	Description string   `json:"description"` // 模板描述
	Files       []string `json:"files"`       // 模板文件列表（相对路径）
}

// Tag 表示一个替换标签
// 模板文件中形如 %TAGNAME 的字面占位符会被替换为对应的值
type Tag struct {
	Name  string // 标签名（不含 % 前缀）
	Value string // 替换值
}

// TagSet 标签集合
// 保持插入顺序：替换按插入顺序逐个应用，先插入的标签先被替换。
// 标签名互为前缀时（如 LICENSE 与 LICENSE_HEADER），应先插入较长的名称，
// 否则较短的标签会破坏较长标签的占位符
type TagSet struct {
	tags  []Tag
	index map[string]int
}

// NewTagSet 创建空标签集合
func NewTagSet() *TagSet {
	return &TagSet{
		index: make(map[string]int),
	}
}

// Set 设置标签值
// 已存在的标签保持原有插入位置，仅更新值
func (s *TagSet) Set(name, value string) {
	if i, ok := s.index[name]; ok {
		s.tags[i].Value = value
		return
	}
	s.index[name] = len(s.tags)
	s.tags = append(s.tags, Tag{Name: name, Value: value})
}

// Get 获取标签值
func (s *TagSet) Get(name string) (string, bool) {
	i, ok := s.index[name]
	if !ok {
		return "", false
	}
	return s.tags[i].Value, true
}

// Tags 按插入顺序返回所有标签
func (s *TagSet) Tags() []Tag {
	return s.tags
}

// Len 标签数量
func (s *TagSet) Len() int {
	return len(s.tags)
}
