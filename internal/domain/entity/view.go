package entity

// Tone цвет баннера результата
type Tone string

const (
	ToneNone    Tone = ""
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

// NoDefectsMessage показывается вместо пустого списка дефектов.
const NoDefectsMessage = "No defects detected."

// View всё, что нужно презентеру, чтобы нарисовать экран.
// Видимость частей экрана выводится только из Session.State.
type View struct {
	State ViewState

	UploadVisible  bool
	LoadingVisible bool
	ResultVisible  bool
	ErrorVisible   bool
	Highlight      bool

	Banner        string
	Tone          Tone
	Defects       []string
	EmptyDefects  string // сообщение, если дефектов нет
	AnalyzedImage *ImagePreview
	DefectImage   *ImagePreview

	Error    string
	InputGen int
}

// RenderView строит представление экрана из состояния сессии.
func RenderView(s *Session) View {
	v := View{
		State:          s.State,
		UploadVisible:  s.State == ViewIdle,
		LoadingVisible: s.State == ViewUploading,
		ResultVisible:  s.State == ViewResultShown,
		ErrorVisible:   s.Error != "",
		Highlight:      s.Highlight,
		Error:          s.Error,
		InputGen:       s.InputGen,
	}

	if !v.ResultVisible || s.Result == nil {
		return v
	}

	v.Banner = s.Result.Verdict()
	v.Tone = ToneDanger
	if s.Result.Approved {
		v.Tone = ToneSuccess
	}

	// approved=false с пустым списком показывает 0 дефектов и сообщение об их отсутствии
	if len(s.Result.Defects) > 0 {
		v.Defects = DefectLabels(s.Result.Defects)
	} else {
		v.EmptyDefects = NoDefectsMessage
	}

	v.AnalyzedImage = s.Analyzed
	v.DefectImage = s.Marked
	return v
}
