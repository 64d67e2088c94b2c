package storage

import (
	"time"

	"genopt/internal/model"
	"genopt/internal/space"
)

func sampleProfile(name string) Profile {
	return Profile{
		VersionedRecord: CurrentVersion(),
		ID:              "p-" + name,
		Name:            name,
		Kind:            "multiple-genes",
		Probability:     0.3,
		Space: space.Space{Kind: space.KindFlexible, Params: []space.Param{
			{Name: "units", Spec: space.Int(8, 256)},
			{Name: "lr", Spec: space.Float(0.0001, 0.1)},
			{Name: "act", Spec: space.Categorical("relu", "tanh", "elu")},
		}},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func sampleBatch(id string) model.Batch {
	return model.Batch{
		VersionedRecord: CurrentVersion(),
		ID:              id,
		Profile:         "nas",
		Individuals: []model.Individual{
			{ID: "i1", Genome: model.Genome{64, 0.01, "relu"}},
			{ID: "i2", Genome: model.Genome{128, 0.05, "tanh"}},
		},
	}
}
