package renderer

import "github.com/ByLCY/wificard/layout"

// Renderer 将布局结果输出为最终文件（PDF），同时为布局阶段提供字体度量。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	layout.Metrics
	Render(result *layout.Result) ([]byte, error)
}
