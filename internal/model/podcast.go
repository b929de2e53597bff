package model

// Voice options for podcast generation.
const (
	VoiceMaleMale     = "male-male"
	VoiceFemaleFemale = "female-female"
	VoiceMaleFemale   = "male-female"
)

// ValidVoice reports whether v is a known voice option.
func ValidVoice(v string) bool {
	switch v {
	case VoiceMaleMale, VoiceFemaleFemale, VoiceMaleFemale:
		return true
	}
	return false
}

// DialogueLine is one turn in a two-host podcast script. Speaker is 1 or 2.
type DialogueLine struct {
	Speaker int    `json:"speaker"`
	Text    string `json:"text"`
}

// PodcastScript is returned by POST /documents/{id}/generate-podcast.
type PodcastScript struct {
	ID       string         `json:"id"`
	Speaker1 string         `json:"speaker1"`
	Speaker2 string         `json:"speaker2"`
	Dialogue []DialogueLine `json:"dialogue"`
}

// SpeakerName resolves a dialogue line's speaker number to the host name.
func (p *PodcastScript) SpeakerName(line DialogueLine) string {
	if line.Speaker == 2 {
		return p.Speaker2
	}
	return p.Speaker1
}

// AudioLine associates a dialogue turn with its generated audio asset. The
// asset is optional: AudioURL stays empty when synthesis failed for that line.
type AudioLine struct {
	LineIndex int    `json:"line_index"`
	Speaker   int    `json:"speaker"`
	Text      string `json:"text"`
	AudioURL  string `json:"audio_url,omitempty"`
}

// HasAudio reports whether the line has a playable asset.
func (l AudioLine) HasAudio() bool {
	return l.AudioURL != ""
}

// PodcastAudio is returned by POST /documents/podcast/{scriptId}/generate-audio.
type PodcastAudio struct {
	ScriptID string      `json:"script_id"`
	Lines    []AudioLine `json:"audio_lines"`
}
