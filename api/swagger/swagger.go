package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MTSS API",
        "description": "Multi-tiered system of supports: intervention catalogue, protocols, lesson plans and screenings",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [
        {"BearerAuth": []}
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and current user"},
        {"name": "Base Interventions", "description": "Intervention templates and difficulty links"},
        {"name": "Intervention Protocols", "description": "Step-by-step protocols for a base intervention"},
        {"name": "Lesson Plans", "description": "Class lesson plans"},
        {"name": "Screenings", "description": "Screening applications, results and statistics"},
        {"name": "System", "description": "Probes and metrics"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "security": [],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/base-interventions": {
            "get": {
                "tags": ["Base Interventions"],
                "summary": "List base interventions",
                "parameters": [
                    {"name": "includeInactive", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Base Interventions"],
                "summary": "Create base intervention",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBaseInterventionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/base-interventions/area/{area}": {
            "get": {
                "tags": ["Base Interventions"],
                "summary": "List base interventions by area",
                "parameters": [
                    {"name": "area", "in": "path", "required": true, "type": "string"},
                    {"name": "includeInactive", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/base-interventions/nivel/{nivel}": {
            "get": {
                "tags": ["Base Interventions"],
                "summary": "List base interventions by tier",
                "parameters": [
                    {"name": "nivel", "in": "path", "required": true, "type": "string"},
                    {"name": "includeInactive", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/base-interventions/{id}": {
            "get": {
                "tags": ["Base Interventions"],
                "summary": "Get base intervention with protocols, KPIs and usages",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Base Interventions"],
                "summary": "Patch base intervention",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBaseInterventionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Base Interventions"],
                "summary": "Deactivate when in use, otherwise delete",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/base-interventions/associate-dificuldade": {
            "post": {
                "tags": ["Base Interventions"],
                "summary": "Link a learning difficulty",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssociateDifficultyRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/base-interventions/{id}/dificuldades": {
            "get": {
                "tags": ["Base Interventions"],
                "summary": "List difficulties linked to an intervention",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/base-interventions/{id}/dificuldades/{dificuldadeId}": {
            "delete": {
                "tags": ["Base Interventions"],
                "summary": "Unlink a learning difficulty",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "dificuldadeId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/base-interventions/by-dificuldade/{dificuldadeId}": {
            "get": {
                "tags": ["Base Interventions"],
                "summary": "List interventions ranked by effectiveness for a difficulty",
                "parameters": [
                    {"name": "dificuldadeId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/intervention-protocols": {
            "get": {
                "tags": ["Intervention Protocols"],
                "summary": "List protocols",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Intervention Protocols"],
                "summary": "Create protocol with steps",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProtocolRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/intervention-protocols/base-intervention/{id}": {
            "get": {
                "tags": ["Intervention Protocols"],
                "summary": "List protocols of a base intervention",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/intervention-protocols/{id}": {
            "get": {
                "tags": ["Intervention Protocols"],
                "summary": "Get protocol",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Intervention Protocols"],
                "summary": "Patch protocol and upsert steps",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProtocolRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Intervention Protocols"],
                "summary": "Delete protocol and its steps",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/intervention-protocols/{id}/duplicate": {
            "post": {
                "tags": ["Intervention Protocols"],
                "summary": "Duplicate protocol",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "newName", "in": "query", "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lesson-plans": {
            "get": {
                "tags": ["Lesson Plans"],
                "summary": "List lesson plans",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Lesson Plans"],
                "summary": "Create lesson plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonPlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lesson-plans/class/{classId}": {
            "get": {
                "tags": ["Lesson Plans"],
                "summary": "List lesson plans of a class",
                "parameters": [
                    {"name": "classId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lesson-plans/teacher/{teacherId}": {
            "get": {
                "tags": ["Lesson Plans"],
                "summary": "List lesson plans of a teacher",
                "parameters": [
                    {"name": "teacherId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lesson-plans/{id}": {
            "get": {
                "tags": ["Lesson Plans"],
                "summary": "Get lesson plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Lesson Plans"],
                "summary": "Patch lesson plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LessonPlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Lesson Plans"],
                "summary": "Delete lesson plan",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screenings": {
            "get": {
                "tags": ["Screenings"],
                "summary": "List screenings",
                "parameters": [
                    {"name": "estudanteId", "in": "query", "type": "string"},
                    {"name": "aplicadorId", "in": "query", "type": "string"},
                    {"name": "instrumentoId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["EM_ANDAMENTO", "CONCLUIDO", "CANCELADO"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Screenings"],
                "summary": "Register screening",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScreeningRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screenings/{id}": {
            "get": {
                "tags": ["Screenings"],
                "summary": "Get screening with results",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Screenings"],
                "summary": "Patch screening",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScreeningRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Screenings"],
                "summary": "Delete screening and its results",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screenings/{id}/results": {
            "post": {
                "tags": ["Screenings"],
                "summary": "Record indicator values",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordResultsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screenings/student/{estudanteId}": {
            "get": {
                "tags": ["Screenings"],
                "summary": "Completed screenings of a student grouped by category",
                "parameters": [
                    {"name": "estudanteId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screenings/student/{estudanteId}/export": {
            "get": {
                "tags": ["Screenings"],
                "summary": "Export a student's results",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "estudanteId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/screenings/statistics/general": {
            "get": {
                "tags": ["Screenings"],
                "summary": "Screening statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateBaseInterventionRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "descricao": {"type": "string"},
                "objetivo": {"type": "string"},
                "nivel": {"type": "string", "enum": ["TIER_1", "TIER_2", "TIER_3"]},
                "area": {"type": "string", "enum": ["LEITURA", "ESCRITA", "MATEMATICA", "COMPORTAMENTO", "SOCIOEMOCIONAL", "ATENCAO", "ORGANIZACAO", "OUTRO"]},
                "tempoEstimado": {"type": "string"},
                "frequencia": {"type": "string", "enum": ["DIARIA", "SEMANAL", "QUINZENAL", "MENSAL", "BIMESTRAL"]},
                "materiais": {"type": "string"},
                "evidencias": {"type": "string"},
                "fonteEvidencia": {"type": "string"},
                "ativo": {"type": "boolean"}
            },
            "required": ["nome", "descricao", "objetivo", "nivel", "area", "tempoEstimado", "frequencia"]
        },
        "AssociateDifficultyRequest": {
            "type": "object",
            "properties": {
                "dificuldadeId": {"type": "string"},
                "intervencaoId": {"type": "string"},
                "eficacia": {"type": "integer", "minimum": 1, "maximum": 5},
                "observacoes": {"type": "string"}
            },
            "required": ["dificuldadeId", "intervencaoId", "eficacia"]
        },
        "ProtocolStep": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "titulo": {"type": "string"},
                "descricao": {"type": "string"},
                "ordem": {"type": "integer"},
                "tempoEstimado": {"type": "string"},
                "materiais": {"type": "string"}
            },
            "required": ["titulo", "descricao", "tempoEstimado"]
        },
        "ProtocolRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "descricao": {"type": "string"},
                "duracao": {"type": "string"},
                "intervencaoBaseId": {"type": "string"},
                "etapas": {"type": "array", "items": {"$ref": "#/definitions/ProtocolStep"}}
            }
        },
        "LessonPlanRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "objectives": {"type": "string"},
                "resources": {"type": "string"},
                "activities": {"type": "string"},
                "assessment": {"type": "string"},
                "notes": {"type": "string"},
                "duration": {"type": "integer"},
                "date": {"type": "string", "format": "date"},
                "status": {"type": "string", "enum": ["draft", "published", "completed"]},
                "classId": {"type": "string"},
                "teacherId": {"type": "string"},
                "contentId": {"type": "string"}
            }
        },
        "ScreeningRequest": {
            "type": "object",
            "properties": {
                "estudanteId": {"type": "string"},
                "aplicadorId": {"type": "string"},
                "instrumentoId": {"type": "string"},
                "dataAplicacao": {"type": "string", "format": "date"},
                "observacoes": {"type": "string"},
                "status": {"type": "string", "enum": ["EM_ANDAMENTO", "CONCLUIDO", "CANCELADO"]}
            }
        },
        "ResultInput": {
            "type": "object",
            "properties": {
                "indicadorId": {"type": "string"},
                "valor": {"type": "number"}
            },
            "required": ["indicadorId", "valor"]
        },
        "RecordResultsRequest": {
            "type": "object",
            "properties": {
                "resultados": {"type": "array", "items": {"$ref": "#/definitions/ResultInput"}},
                "concluir": {"type": "boolean"}
            },
            "required": ["resultados"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
