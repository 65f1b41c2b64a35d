package models

// InterventionArea classifies the skill domain an intervention targets.
type InterventionArea string

const (
	AreaReading        InterventionArea = "LEITURA"
	AreaWriting        InterventionArea = "ESCRITA"
	AreaMath           InterventionArea = "MATEMATICA"
	AreaBehavior       InterventionArea = "COMPORTAMENTO"
	AreaSocioEmotional InterventionArea = "SOCIOEMOCIONAL"
	AreaAttention      InterventionArea = "ATENCAO"
	AreaOrganization   InterventionArea = "ORGANIZACAO"
	AreaOther          InterventionArea = "OUTRO"
)

// InterventionLevel is the RTI tier (1 universal, 2 targeted, 3 intensive).
type InterventionLevel string

const (
	LevelTier1 InterventionLevel = "TIER_1"
	LevelTier2 InterventionLevel = "TIER_2"
	LevelTier3 InterventionLevel = "TIER_3"
)

// InterventionFrequency is how often an intervention is applied.
type InterventionFrequency string

const (
	FrequencyDaily     InterventionFrequency = "DIARIA"
	FrequencyWeekly    InterventionFrequency = "SEMANAL"
	FrequencyBiweekly  InterventionFrequency = "QUINZENAL"
	FrequencyMonthly   InterventionFrequency = "MENSAL"
	FrequencyBimonthly InterventionFrequency = "BIMESTRAL"
)

// ScreeningStatus tracks a screening application lifecycle.
type ScreeningStatus string

const (
	ScreeningInProgress ScreeningStatus = "EM_ANDAMENTO"
	ScreeningCompleted  ScreeningStatus = "CONCLUIDO"
	ScreeningCancelled  ScreeningStatus = "CANCELADO"
)

// RiskLevel is the computed risk for a screening result.
type RiskLevel string

const (
	RiskLow      RiskLevel = "BAIXO"
	RiskModerate RiskLevel = "MODERADO"
	RiskHigh     RiskLevel = "ALTO"
)

// LessonPlanStatus tracks a lesson plan lifecycle.
type LessonPlanStatus string

const (
	LessonPlanDraft     LessonPlanStatus = "draft"
	LessonPlanPublished LessonPlanStatus = "published"
	LessonPlanCompleted LessonPlanStatus = "completed"
)
