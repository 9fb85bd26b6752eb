package dto

// 助手接口沿用简单的 JSON 形状，不使用统一响应信封。

// GenerateTaskRequest 生成任务请求；用指针区分缺失字段
type GenerateTaskRequest struct {
	Prompt *string `json:"prompt"`
}

// GenerateTaskResponse 生成任务响应
type GenerateTaskResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ImproveContentRequest 改写内容请求
type ImproveContentRequest struct {
	Content *string `json:"content"`
}

// ImproveContentResponse 改写内容响应
type ImproveContentResponse struct {
	ImprovedContent string `json:"improvedContent"`
	Type            string `json:"type"`
}

// AssistantErrorResponse 助手接口的错误响应
type AssistantErrorResponse struct {
	Error string `json:"error"`
}
