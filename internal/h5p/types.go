package h5p

// QuestionSet is the params document of an H5P.QuestionSet. Field order and
// JSON names are fixed; the renderer treats the shape as a contract.
type QuestionSet struct {
	IntroPage                  IntroPage  `json:"introPage"`
	ProgressType               string     `json:"progressType"`
	PassPercentage             int        `json:"passPercentage"`
	Questions                  []Question `json:"questions"`
	DisableBackwardsNavigation bool       `json:"disableBackwardsNavigation"`
	RandomQuestions            bool       `json:"randomQuestions"`
	EndGame                    EndGame    `json:"endGame"`
	Override                   Override   `json:"override"`
	Texts                      Texts      `json:"texts"`
}

type IntroPage struct {
	ShowIntroPage   bool   `json:"showIntroPage"`
	StartButtonText string `json:"startButtonText"`
	Introduction    string `json:"introduction"`
}

type FeedbackRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type EndGame struct {
	ShowResultPage     bool            `json:"showResultPage"`
	ShowSolutionButton bool            `json:"showSolutionButton"`
	ShowRetryButton    bool            `json:"showRetryButton"`
	NoResultMessage    string          `json:"noResultMessage"`
	Message            string          `json:"message"`
	ScoreBarLabel      string          `json:"scoreBarLabel"`
	OverallFeedback    []FeedbackRange `json:"overallFeedback"`
	SolutionButtonText string          `json:"solutionButtonText"`
	RetryButtonText    string          `json:"retryButtonText"`
	FinishButtonText   string          `json:"finishButtonText"`
	SubmitButtonText   string          `json:"submitButtonText"`
	ShowAnimations     bool            `json:"showAnimations"`
	Skippable          bool            `json:"skippable"`
	SkipButtonText     string          `json:"skipButtonText"`
}

type Override struct {
	CheckButton bool `json:"checkButton"`
}

type Texts struct {
	PrevButton          string `json:"prevButton"`
	NextButton          string `json:"nextButton"`
	FinishButton        string `json:"finishButton"`
	SubmitButton        string `json:"submitButton"`
	TextualProgress     string `json:"textualProgress"`
	JumpToQuestion      string `json:"jumpToQuestion"`
	QuestionLabel       string `json:"questionLabel"`
	ReadSpeakerProgress string `json:"readSpeakerProgress"`
	UnansweredText      string `json:"unansweredText"`
	AnsweredText        string `json:"answeredText"`
	CurrentQuestionText string `json:"currentQuestionText"`
	NavigationLabel     string `json:"navigationLabel"`
}

// Question is one H5P.MultiChoice sub-content entry.
type Question struct {
	Params       QuestionParams `json:"params"`
	Library      string         `json:"library"`
	Metadata     Metadata       `json:"metadata"`
	SubContentID string         `json:"subContentId"`
}

type QuestionParams struct {
	Media           Media           `json:"media"`
	Answers         []Answer        `json:"answers"`
	OverallFeedback []FeedbackRange `json:"overallFeedback"`
	Behaviour       Behaviour       `json:"behaviour"`
	UI              UI              `json:"UI"`
	ConfirmCheck    ConfirmDialog   `json:"confirmCheck"`
	ConfirmRetry    ConfirmDialog   `json:"confirmRetry"`
	Question        string          `json:"question"`
}

type Media struct {
	DisableImageZooming bool      `json:"disableImageZooming"`
	Type                MediaType `json:"type"`
}

// MediaType always serializes its params as an empty object.
type MediaType struct {
	Params struct{} `json:"params"`
}

type Answer struct {
	Correct         bool            `json:"correct"`
	TipsAndFeedback TipsAndFeedback `json:"tipsAndFeedback"`
	Text            string          `json:"text"`
}

type TipsAndFeedback struct {
	Tip               string `json:"tip"`
	ChosenFeedback    string `json:"chosenFeedback"`
	NotChosenFeedback string `json:"notChosenFeedback"`
}

type Behaviour struct {
	EnableRetry                bool   `json:"enableRetry"`
	EnableSolutionsButton      bool   `json:"enableSolutionsButton"`
	EnableCheckButton          bool   `json:"enableCheckButton"`
	Type                       string `json:"type"`
	SinglePoint                bool   `json:"singlePoint"`
	RandomAnswers              bool   `json:"randomAnswers"`
	ShowSolutionsRequiresInput bool   `json:"showSolutionsRequiresInput"`
	ConfirmCheckDialog         bool   `json:"confirmCheckDialog"`
	ConfirmRetryDialog         bool   `json:"confirmRetryDialog"`
	AutoCheck                  bool   `json:"autoCheck"`
	PassPercentage             int    `json:"passPercentage"`
	ShowScorePoints            bool   `json:"showScorePoints"`
}

type UI struct {
	CheckAnswerButton  string `json:"checkAnswerButton"`
	SubmitAnswerButton string `json:"submitAnswerButton"`
	ShowSolutionButton string `json:"showSolutionButton"`
	TryAgainButton     string `json:"tryAgainButton"`
	TipsLabel          string `json:"tipsLabel"`
	ScoreBarLabel      string `json:"scoreBarLabel"`
	TipAvailable       string `json:"tipAvailable"`
	FeedbackAvailable  string `json:"feedbackAvailable"`
	ReadFeedback       string `json:"readFeedback"`
	WrongAnswer        string `json:"wrongAnswer"`
	CorrectAnswer      string `json:"correctAnswer"`
	ShouldCheck        string `json:"shouldCheck"`
	ShouldNotCheck     string `json:"shouldNotCheck"`
	NoInput            string `json:"noInput"`
	A11yCheck          string `json:"a11yCheck"`
	A11yShowSolution   string `json:"a11yShowSolution"`
	A11yRetry          string `json:"a11yRetry"`
}

type ConfirmDialog struct {
	Header       string `json:"header"`
	Body         string `json:"body"`
	CancelLabel  string `json:"cancelLabel"`
	ConfirmLabel string `json:"confirmLabel"`
}

// Metadata is the per-question H5P metadata block.
type Metadata struct {
	ContentType string   `json:"contentType"`
	License     string   `json:"license"`
	Title       string   `json:"title"`
	Authors     []Author `json:"authors"`
	Changes     []Change `json:"changes"`
	ExtraTitle  string   `json:"extraTitle"`
}

type Author struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type Change struct {
	Date   string `json:"date,omitempty"`
	Author string `json:"author,omitempty"`
	Log    string `json:"log,omitempty"`
}
