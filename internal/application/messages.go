package app

// Сообщения, которые видит пользователь
const (
	MsgAnalysisTimeout    = "The analysis took too long and was cancelled. Please try again with a smaller image or check your connection."
	MsgAnalysisFailed     = "Failed to process the image. Please try again."
	MsgAnalyzedImageError = "Failed to load the analyzed image."
	MsgDefectImageError   = "Failed to load the defect image."
	MsgProductNotSelected = "Please select a product before sending an image."
)
