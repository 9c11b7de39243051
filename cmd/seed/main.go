package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"anamnesis/internal/config"
	"anamnesis/internal/model"
	"anamnesis/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	formRepo := repository.NewFormRepo(db)

	for _, form := range []*model.FormTemplate{anamnesisTemplate(), visionExamTemplate()} {
		id, err := formRepo.Create(ctx, form)
		if err != nil {
			log.Fatal().Err(err).Str("title", form.Title).Msg("failed to insert template")
		}
		fmt.Printf("created template %q (%s)\n", form.Title, id)
	}
}

// anamnesisTemplate is the general patient intake filled on a tablet in
// the waiting area.
func anamnesisTemplate() *model.FormTemplate {
	now := time.Now()
	return &model.FormTemplate{
		Title:     "Patient Intake",
		CreatedBy: "seed",
		CreatedAt: now,
		UpdatedAt: now,
		Kiosk: &model.KioskConfig{
			Enabled:      true,
			IdleResetSec: 120,
			WelcomeText:  "Welcome! Please answer a few questions before your appointment.",
		},
		Sections: []model.FormSection{
			{
				Title: "Personal Details",
				Questions: []model.FormQuestion{
					{ID: "name", Label: "What is your full name?", Type: model.QuestionTypeText, Required: true},
					{ID: "birth_date", Label: "What is your date of birth?", Type: model.QuestionTypeDate, Required: true},
					{ID: "email", Label: "What is your email address?", Type: model.QuestionTypeEmail},
					{ID: "phone", Label: "What is your phone number?", Type: model.QuestionTypeTel},
				},
			},
			{
				Title: "Current Complaints",
				Questions: []model.FormQuestion{
					{
						ID:       "has_complaints",
						Label:    "Do you currently have any vision complaints?",
						Type:     model.QuestionTypeRadio,
						Options:  []string{"yes", "no"},
						Required: true,
					},
					{
						ID:      "complaints",
						Label:   "Which complaints do you have?",
						Type:    model.QuestionTypeCheckbox,
						Options: []string{"Blurred vision", "Headaches", "Double vision", "Eye strain", "Night vision problems"},
						ShowIf:  &model.Condition{Question: "has_complaints", Equals: "yes"},
						FollowupQuestionIDs: []string{
							"complaint_detail",
							"complaint_duration",
						},
					},
					{
						ID:                 "complaint_detail",
						Label:              "Please describe the {option} in more detail.",
						Type:               model.QuestionTypeTextarea,
						IsFollowupTemplate: true,
					},
					{
						ID:                 "complaint_duration",
						Label:              "How long have you experienced {option}?",
						Type:               model.QuestionTypeRadio,
						Options:            []string{"Less than a week", "A few weeks", "Several months", "Over a year"},
						IsFollowupTemplate: true,
					},
				},
			},
			{
				Title: "Visual Aids",
				Questions: []model.FormQuestion{
					{
						ID:      "wears_correction",
						Label:   "Which visual aids do you currently use?",
						Type:    model.QuestionTypeCheckbox,
						Options: []string{"Glasses", "Contact lenses", "Reading glasses", "None"},
					},
				},
			},
			{
				Title:  "Lens Wearers",
				ShowIf: &model.Condition{Question: "wears_correction", Contains: "Contact lenses"},
				Questions: []model.FormQuestion{
					{
						ID:      "lens_type",
						Label:   "What type of contact lenses do you wear?",
						Type:    model.QuestionTypeRadio,
						Options: []string{"Daily disposable", "Monthly", "Rigid gas permeable"},
					},
					{
						ID:    "lens_hours",
						Label: "How many hours per day do you wear them?",
						Type:  model.QuestionTypeNumber,
					},
				},
			},
			{
				Title: "Health History",
				Questions: []model.FormQuestion{
					{
						ID:      "conditions",
						Label:   "Have you been diagnosed with any of the following?",
						Type:    model.QuestionTypeCheckbox,
						Options: []string{"Diabetes", "High blood pressure", "Glaucoma", "Cataract", "None of these"},
					},
					{
						ID:     "medication",
						Label:  "Please list any medication you take regularly.",
						Type:   model.QuestionTypeTextarea,
						ShowIf: &model.Condition{Question: "conditions", Contains: []interface{}{"Diabetes", "High blood pressure", "Glaucoma"}},
					},
				},
			},
		},
	}
}

// visionExamTemplate is the driving licence vision screening; the
// measurement questions are only shown in optician mode.
func visionExamTemplate() *model.FormTemplate {
	now := time.Now()
	return &model.FormTemplate{
		Title:     "Driving Licence Vision Exam",
		CreatedBy: "seed",
		CreatedAt: now,
		UpdatedAt: now,
		ScoringConfig: map[string]interface{}{
			"visusMinimum": 0.7,
		},
		Sections: []model.FormSection{
			{
				Title: "Applicant",
				Questions: []model.FormQuestion{
					{ID: "name", Label: "What is your full name?", Type: model.QuestionTypeText, Required: true},
					{ID: "birth_date", Label: "What is your date of birth?", Type: model.QuestionTypeDate, Required: true},
					{
						ID:       "licence_class",
						Label:    "Which licence class are you applying for?",
						Type:     model.QuestionTypeDropdown,
						Options:  []string{"AM", "A", "B", "C", "D"},
						Required: true,
					},
					{
						ID:      "wears_glasses",
						Label:   "Do you wear glasses or contact lenses while driving?",
						Type:    model.QuestionTypeRadio,
						Options: []string{"yes", "no"},
					},
				},
			},
			{
				Title: "Measurements",
				Questions: []model.FormQuestion{
					{
						ID:         "measurement_info",
						Label:      "Record the uncorrected and corrected visual acuity per eye.",
						Type:       model.QuestionTypeInfo,
						ShowInMode: model.ShowModeOptician,
					},
					{
						ID:         "visus_od",
						Label:      "Visual acuity, right eye",
						Type:       model.QuestionTypeNumber,
						ShowInMode: model.ShowModeOptician,
						Required:   true,
					},
					{
						ID:         "visus_os",
						Label:      "Visual acuity, left eye",
						Type:       model.QuestionTypeNumber,
						ShowInMode: model.ShowModeOptician,
						Required:   true,
					},
					{
						ID:         "visus_corrected",
						Label:      "Corrected acuity with current prescription",
						Type:       model.QuestionTypeNumber,
						ShowInMode: model.ShowModeOptician,
						ShowIf:     &model.Condition{Question: "wears_glasses", Equals: "yes"},
					},
				},
			},
		},
	}
}
