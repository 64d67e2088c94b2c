package storage

import (
	"encoding/json"
	"errors"

	"genopt/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeProfile(p Profile) ([]byte, error) {
	return json.Marshal(p)
}

func DecodeProfile(data []byte) (Profile, error) {
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return Profile{}, err
	}
	if err := checkVersion(profile.VersionedRecord); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func EncodeBatch(b model.Batch) ([]byte, error) {
	return json.Marshal(b)
}

func DecodeBatch(data []byte) (model.Batch, error) {
	var batch model.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return model.Batch{}, err
	}
	if err := checkVersion(batch.VersionedRecord); err != nil {
		return model.Batch{}, err
	}
	return batch, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
