package h5p

const (
	// LibraryQuestionSet is the machine name stored on the content record.
	LibraryQuestionSet = "H5P.QuestionSet"
	// LibraryMultiChoice is the sub-content library of every question.
	LibraryMultiChoice = "H5P.MultiChoice 1.16"
)

// NewQuestionSet returns the envelope with its fixed defaults and no questions.
func NewQuestionSet() QuestionSet {
	return QuestionSet{
		IntroPage: IntroPage{
			ShowIntroPage:   false,
			StartButtonText: "Start Quiz",
			Introduction:    "",
		},
		ProgressType:               "dots",
		PassPercentage:             50,
		Questions:                  []Question{},
		DisableBackwardsNavigation: false,
		RandomQuestions:            false,
		EndGame: EndGame{
			ShowResultPage:     true,
			ShowSolutionButton: true,
			ShowRetryButton:    true,
			NoResultMessage:    "Finished",
			Message:            "Your result:",
			ScoreBarLabel:      "You got @finals out of @totals points",
			OverallFeedback:    fullRange(),
			SolutionButtonText: "Show solution",
			RetryButtonText:    "Retry",
			FinishButtonText:   "Finish",
			SubmitButtonText:   "Submit",
			ShowAnimations:     false,
			Skippable:          false,
			SkipButtonText:     "Skip video",
		},
		Override: Override{CheckButton: true},
		Texts: Texts{
			PrevButton:          "Previous question",
			NextButton:          "Next question",
			FinishButton:        "Finish",
			SubmitButton:        "Submit",
			TextualProgress:     "Question: @current of @total questions",
			JumpToQuestion:      "Question %d of %total",
			QuestionLabel:       "Question",
			ReadSpeakerProgress: "Question @current of @total",
			UnansweredText:      "Unanswered",
			AnsweredText:        "Answered",
			CurrentQuestionText: "Current question",
			NavigationLabel:     "Questions",
		},
	}
}

func fullRange() []FeedbackRange { return []FeedbackRange{{From: 0, To: 100}} }

func defaultBehaviour() Behaviour {
	return Behaviour{
		EnableRetry:                true,
		EnableSolutionsButton:      true,
		EnableCheckButton:          true,
		Type:                       "auto",
		SinglePoint:                false,
		RandomAnswers:              true,
		ShowSolutionsRequiresInput: true,
		ConfirmCheckDialog:         false,
		ConfirmRetryDialog:         false,
		AutoCheck:                  false,
		PassPercentage:             100,
		ShowScorePoints:            true,
	}
}

func defaultUI() UI {
	return UI{
		CheckAnswerButton:  "Check",
		SubmitAnswerButton: "Submit",
		ShowSolutionButton: "Show solution",
		TryAgainButton:     "Retry",
		TipsLabel:          "Show tip",
		ScoreBarLabel:      "You got :num out of :total points",
		TipAvailable:       "Tip available",
		FeedbackAvailable:  "Feedback available",
		ReadFeedback:       "Read feedback",
		WrongAnswer:        "Wrong answer",
		CorrectAnswer:      "Correct answer",
		ShouldCheck:        "Should have been checked",
		ShouldNotCheck:     "Should not have been checked",
		NoInput:            "Please answer before viewing the solution",
		A11yCheck:          "Check the answers. The responses will be marked as correct, incorrect, or unanswered.",
		A11yShowSolution:   "Show the solution. The task will be marked with its correct solution.",
		A11yRetry:          "Retry the task. Reset all responses and start the task over again.",
	}
}

func confirmCheck() ConfirmDialog {
	return ConfirmDialog{
		Header:       "Finish ?",
		Body:         "Are you sure you wish to finish ?",
		CancelLabel:  "Cancel",
		ConfirmLabel: "Finish",
	}
}

func confirmRetry() ConfirmDialog {
	return ConfirmDialog{
		Header:       "Retry ?",
		Body:         "Are you sure you wish to retry ?",
		CancelLabel:  "Cancel",
		ConfirmLabel: "Confirm",
	}
}
