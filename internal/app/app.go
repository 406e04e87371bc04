// Package app wires repositories, controllers and optional integrations
// from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"smarthome-panel/internal/controller"
	"smarthome-panel/internal/database"
	"smarthome-panel/internal/dialog"
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/mqtt"
	"smarthome-panel/internal/notify"
	"smarthome-panel/internal/repository"
	"smarthome-panel/internal/speech"
	"smarthome-panel/internal/strategy"
	"smarthome-panel/internal/stream"
	"smarthome-panel/pkg/config"
)

const (
	sttTimeout     = 10 * time.Second
	connectTimeout = 10 * time.Second
	audioBuffer    = 32
	eventBuffer    = 256
)

// App owns every long-lived component of the panel
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Users   *repository.AuthRepository
	Devices *repository.DeviceRepository

	Auth     *controller.Auth
	Device   *controller.Device
	Request  *controller.Request
	Analysis *controller.Analysis
	Decision *controller.Decision
	Response *controller.Response
	Speech   *controller.Speech

	Chat *dialog.Chat

	listener   *speech.Listener
	mqttClient *mqtt.Client
	audioSub   *mqtt.AudioSubscriber
	clickhouse *database.ClickHouseDB
	redis      *redis.Client

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	relay   *dialog.VoiceRelay
	samples int
}

// New builds the panel. Integrations that fail to connect are logged and
// left out; only the core is required.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, w := range cfg.Warnings {
		logger.Warn("Configuration", zap.String("warning", w))
	}

	runCtx, cancel := context.WithCancel(context.Background())
	a := &App{
		Config: cfg,
		Logger: logger,
		ctx:    runCtx,
		cancel: cancel,
	}

	a.Users = repository.NewAuthRepository(cfg.UsersPath(), logger.Named("users"))
	a.Devices = repository.NewDeviceRepository(cfg.DevicesPath(), logger.Named("devices"))

	a.Auth = controller.NewAuth(a.Users, logger.Named("auth"))
	a.Device = controller.NewDevice(a.Devices, logger.Named("device"))
	a.Request = controller.NewRequest(repository.NewSoundRepository(), repository.NewSensorDataRepository(), logger.Named("request"))
	a.Analysis = controller.NewAnalysis(repository.NewRequestRepository(), repository.NewAnalysisRepository(), nil, logger.Named("analysis"))
	a.Decision = controller.NewDecision(repository.NewDecisionRepository(), logger.Named("decision"))
	a.Response = controller.NewResponse(repository.NewResponseRepository(), logger.Named("response"))
	a.Chat = dialog.NewChat(a.Auth)

	if cfg.MQTTEnabled {
		a.connectMQTT()
	}
	a.Speech = controller.NewSpeech(a.buildListener(), logger.Named("speech"))

	if cfg.ClickHouseEnabled {
		a.connectClickHouse(ctx)
	}
	if cfg.RedisEnabled {
		a.connectRedis(ctx)
	}

	logger.Info("Panel initialized",
		zap.Int("users", len(a.Users.GetAll())),
		zap.Int("devices", len(a.Devices.GetAll())),
		zap.Bool("mqtt", a.mqttClient != nil),
		zap.Bool("speech", a.Speech.Available()),
		zap.Bool("clickhouse", a.clickhouse != nil),
		zap.Bool("redis", a.redis != nil))
	return a, nil
}

func (a *App) connectMQTT() {
	client, err := mqtt.NewClient(mqtt.ClientConfig{
		Broker:   a.Config.MQTTBroker,
		ClientID: a.Config.MQTTClientID,
		Username: a.Config.MQTTUsername,
		Password: a.Config.MQTTPassword,
	}, a.Logger.Named("mqtt"))
	if err != nil {
		a.Logger.Warn("MQTT disabled", zap.Error(err))
		return
	}
	a.mqttClient = client

	publisher := mqtt.NewStatePublisher(client.Native(), a.Config.MQTTTopicDeviceState, eventBuffer, a.Logger.Named("mqtt"))
	a.Device.Subscribe(publisher)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		publisher.Run(a.ctx)
	}()

	if a.Config.SpeechEnabled {
		sub := mqtt.NewAudioSubscriber(client.Native(), a.Config.MQTTTopicAudio,
			make(chan *models.AudioRecording, audioBuffer), a.Logger.Named("mqtt"))
		if err := sub.Subscribe(); err != nil {
			a.Logger.Warn("Microphone audio unavailable", zap.Error(err))
			return
		}
		a.audioSub = sub
	}
}

// buildListener returns nil when voice input cannot work
func (a *App) buildListener() controller.Listener {
	if !a.Config.SpeechEnabled {
		return nil
	}
	if a.audioSub == nil {
		a.Logger.Warn("Speech recognition unavailable: no microphone source (enable MQTT)")
		return nil
	}
	recognizer := speech.NewHTTPRecognizer(a.Config.STTURL, a.Config.STTAPIKey, a.Config.STTLanguage, sttTimeout, a.Logger.Named("stt"))
	a.listener = speech.NewListener(
		speech.NewChannelSource(a.audioSub.AudioChan),
		recognizer,
		speech.Params{
			EnergyThreshold: a.Config.SpeechEnergyThreshold,
			PauseThreshold:  a.Config.SpeechPauseThreshold,
			PhraseTimeLimit: a.Config.SpeechPhraseLimit,
		},
		a.Logger.Named("speech"),
	)
	return a.listener
}

func (a *App) connectClickHouse(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := database.NewClickHouseDB(ctx, database.Options{
		Addr:     a.Config.ClickHouseAddr,
		Database: a.Config.ClickHouseDB,
		Username: a.Config.ClickHouseUser,
		Password: a.Config.ClickHousePass,
	}, a.Logger.Named("clickhouse"))
	if err != nil {
		a.Logger.Warn("ClickHouse journal disabled", zap.Error(err))
		return
	}
	a.clickhouse = db

	journal := database.NewJournal(db, eventBuffer, a.Logger.Named("journal"))
	a.forward(journal)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		journal.Run(a.ctx)
	}()
}

func (a *App) connectRedis(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := stream.Connect(ctx, a.Config.RedisAddr, a.Config.RedisPassword)
	if err != nil {
		a.Logger.Warn("Redis event stream disabled", zap.Error(err))
		return
	}
	a.redis = client

	sink := stream.NewSink(client, a.Config.RedisStream, eventBuffer, a.Logger.Named("stream"))
	a.forward(sink)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sink.Run(a.ctx)
	}()
}

// forward subscribes r to every controller
func (a *App) forward(r notify.Recorder) {
	notify.Forward(a.Auth.Bus, r)
	notify.Forward(a.Device.Bus, r)
	notify.Forward(a.Request.Bus, r)
	notify.Forward(a.Analysis.Bus, r)
	notify.Forward(a.Decision.Bus, r)
	notify.Forward(a.Response.Bus, r)
	notify.Forward(a.Speech.Bus, r)
}

// StartVoiceRelay starts polling recognized phrases. dispatch runs on the
// relay goroutine and must hand the phrase to the UI goroutine. It is a
// no-op when speech is unavailable or the relay is already running.
func (a *App) StartVoiceRelay(dispatch func(string)) *dialog.VoiceRelay {
	if a.relay != nil || !a.Speech.Available() {
		return a.relay
	}
	a.relay = dialog.NewVoiceRelay(a.Speech, a.Config.SpeechPollInterval, dispatch, a.Logger.Named("relay"))
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.relay.Run(a.ctx)
	}()
	return a.relay
}

// ToggleVoice switches voice mode, starting or stopping recognition. It
// returns the new mode.
func (a *App) ToggleVoice() (bool, error) {
	if a.relay == nil {
		return false, errors.New("voice input is not available")
	}
	if a.relay.Enabled() {
		a.relay.Disable()
		a.Speech.StopListening()
		return false, nil
	}
	if !a.Speech.IsListening() && !a.Speech.StartListening() {
		return false, errors.New("speech recognition could not start")
	}
	a.relay.Enable()
	return true, nil
}

// ErrNoAnalysis and ErrNoDecision report a workflow step run out of order
var (
	ErrNoAnalysis = errors.New("no analysis yet, run an analysis first")
	ErrNoDecision = errors.New("no decision yet, make a decision first")
)

// Analyze creates a request from the given chat text and analyzes it with
// the named strategy; an empty name keeps the current strategy
func (a *App) Analyze(strategyName, text string) (models.Analysis, error) {
	if strategyName != "" {
		s, err := strategy.ByName(strategyName)
		if err != nil {
			return models.Analysis{}, err
		}
		a.Analysis.SetStrategy(s)
	}

	a.samples++
	now := time.Now()
	sound := models.Sound{ID: a.samples, NoiseLevel: "low"}
	sensor := models.SensorData{
		ID:        fmt.Sprintf("chat_%d", a.samples),
		Timestamp: now.Format(time.RFC3339),
		Purpose:   text,
	}
	req := a.Request.CreateRequest(sound, sensor)
	return a.Analysis.PerformAnalysis(req), nil
}

// Decide makes a decision from the current analysis
func (a *App) Decide() (models.Decision, error) {
	analysis, ok := a.Analysis.CurrentAnalysis()
	if !ok {
		return models.Decision{}, ErrNoAnalysis
	}
	return a.Decision.MakeDecision(analysis), nil
}

// Respond generates a response from the current decision
func (a *App) Respond() (models.Response, error) {
	decision, ok := a.Decision.CurrentDecision()
	if !ok {
		return models.Response{}, ErrNoDecision
	}
	return a.Response.GenerateResponse(decision), nil
}

// Close stops background work and releases connections
func (a *App) Close() error {
	if a.listener != nil {
		a.listener.Close()
	}
	if a.audioSub != nil {
		if err := a.audioSub.Unsubscribe(); err != nil {
			a.Logger.Debug("Audio unsubscribe failed", zap.Error(err))
		}
	}
	a.cancel()
	a.wg.Wait()

	var errs []error
	if a.mqttClient != nil {
		a.mqttClient.Close()
	}
	if a.clickhouse != nil {
		errs = append(errs, a.clickhouse.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	a.Logger.Info("Panel stopped")
	return errors.Join(errs...)
}
