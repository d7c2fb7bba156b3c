package main

import (
	"proof-inscriber/pkg/logger"
	"proof-inscriber/pkg/rabbitmq"
)

type InscriberConfigJson struct {
	LoggerConf      logger.LoggerConfigJson    `json:"logger"`
	RabbitmqConf    rabbitmq.RabbimqConfigJson `json:"rabbitmq"`
	RecordStoreConf RecordStoreConfigJson      `json:"record_store"`
	InscriptionConf InscriptionConfigJson      `json:"inscription"`
}

func (icj InscriberConfigJson) ConvertToDomain() InscriberConfig {
	return InscriberConfig{
		LoggerConf:      icj.LoggerConf.MapToDomain(),
		RabbitmqConf:    icj.RabbitmqConf.ConvertToDomain(),
		RecordStoreConf: icj.RecordStoreConf.ConvertToDomain(),
		InscriptionConf: icj.InscriptionConf.ConvertToDomain(),
	}
}

type InscriberConfig struct {
	LoggerConf      logger.LoggerConfig
	RabbitmqConf    rabbitmq.RabbitmqConfig
	RecordStoreConf RecordStoreConfig
	InscriptionConf InscriptionConfig
}

type RecordStoreConfigJson struct {
	BaseUrl   string `json:"base_url"`
	AuthToken string `json:"auth_token"`
}

type RecordStoreConfig struct {
	BaseUrl   string
	AuthToken string
}

func (rscj RecordStoreConfigJson) ConvertToDomain() RecordStoreConfig {
	return RecordStoreConfig{
		BaseUrl:   rscj.BaseUrl,
		AuthToken: rscj.AuthToken,
	}
}

type InscriptionConfigJson struct {
	MaxResumeAttempts    int `json:"max_resume_attempts"`
	SubmitTimeoutSeconds int `json:"submit_timeout_seconds"`
	ChunkSize            int `json:"chunk_size"`
}

type InscriptionConfig struct {
	MaxResumeAttempts    int
	SubmitTimeoutSeconds int
	ChunkSize            int
}

func (icj InscriptionConfigJson) ConvertToDomain() InscriptionConfig {
	return InscriptionConfig{
		MaxResumeAttempts:    icj.MaxResumeAttempts,
		SubmitTimeoutSeconds: icj.SubmitTimeoutSeconds,
		ChunkSize:            icj.ChunkSize,
	}
}
