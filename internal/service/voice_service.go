package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/customer_portal/internal/storage"
	"github.com/GTDGit/customer_portal/pkg/elevenlabs"
)

// Voice labels accepted from clients.
const (
	VoiceProfessionalFemale = "professional_female"
	VoiceFriendlyMale       = "friendly_male"
	VoiceWarmFemale         = "warm_female"
)

var voiceIDs = map[string]string{
	VoiceProfessionalFemale: "21m00Tcm4TlvDq8ikWAM",
	VoiceFriendlyMale:       "29vD33N1CtxCmqQRPOHJ",
	VoiceWarmFemale:         "pNInz6obpgDQGcFmaJgB",
}

var defaultVoiceSettings = elevenlabs.VoiceSettings{
	Stability:       0.75,
	SimilarityBoost: 0.75,
	Style:           0.5,
	UseSpeakerBoost: true,
}

// Synthesizer renders speech audio.
type Synthesizer interface {
	TextToSpeech(ctx context.Context, voiceID, text string, settings elevenlabs.VoiceSettings) ([]byte, error)
}

// VoiceService turns reply text into a stored audio file.
type VoiceService struct {
	synth   Synthesizer
	store   storage.AudioStore
	timeout time.Duration
	now     func() time.Time
}

// NewVoiceService constructs a new VoiceService.
func NewVoiceService(synth Synthesizer, store storage.AudioStore, timeout time.Duration) *VoiceService {
	return &VoiceService{synth: synth, store: store, timeout: timeout, now: time.Now}
}

// ResolveVoice maps a label to a provider voice id; unknown labels get the
// professional female voice.
func ResolveVoice(label string) string {
	if id, ok := voiceIDs[label]; ok {
		return id
	}
	return voiceIDs[VoiceProfessionalFemale]
}

// Synthesize returns the audio reference for text, or "" when synthesis or
// storage fails. Failures are logged and never retried.
func (s *VoiceService) Synthesize(ctx context.Context, text, voiceLabel string) string {
	if s.synth == nil || s.store == nil {
		log.Warn().Msg("Voice synthesis is not configured")
		return ""
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	voiceID := ResolveVoice(voiceLabel)
	audio, err := s.synth.TextToSpeech(ctx, voiceID, text, defaultVoiceSettings)
	if err != nil {
		log.Error().Err(err).Str("voice_id", voiceID).Msg("Voice synthesis failed")
		return ""
	}

	name := fmt.Sprintf("audio_%d.mp3", s.now().UnixMicro())
	ref, err := s.store.Save(ctx, name, audio)
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("Failed to store synthesized audio")
		return ""
	}
	log.Info().Str("file", name).Int("bytes", len(audio)).Msg("Voice audio stored")
	return ref
}
