// Package docs contiene la especificación OpenAPI servida en /swagger.
// Se regenera con: swag init -g cmd/registry/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/patients": {
            "get": {
                "description": "Todos los residentes en orden de registro, con edad y FPP derivadas.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "patients"
                ],
                "summary": "Listado maestro",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/patients.patientResponse"
                            }
                        }
                    }
                }
            },
            "post": {
                "description": "Valida el formulario y agrega el residente con el siguiente ID. Si la LMP tiene menos de 4 semanas responde 409 salvo que ` + "`" + `recent_lmp` + "`" + ` sea ` + "`" + `clear` + "`" + ` (guardar con LMP N/A) o ` + "`" + `abort` + "`" + ` (cancelar).",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "patients"
                ],
                "summary": "Registrar residente",
                "parameters": [
                    {
                        "description": "Datos del residente; fechas en formato YYYY-MM-DD",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/patients.createPatientRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/patients.profileResponse"
                        }
                    },
                    "400": {
                        "description": "invalid json / validación",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/patients.confirmationResponse"
                        }
                    }
                }
            }
        },
        "/patients/search": {
            "get": {
                "description": "Busca por ID exacto y, si no, por prefijo de nombre sin distinguir mayúsculas. Con varios resultados gana el primero registrado.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "patients"
                ],
                "summary": "Buscar residente",
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID o prefijo del nombre",
                        "name": "q",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/patients.profileResponse"
                        }
                    },
                    "404": {
                        "description": "patient not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/patients/{patientID}": {
            "get": {
                "description": "Perfil con edad, estado de embarazo y controles pendientes.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "patients"
                ],
                "summary": "Perfil de residente",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID del residente",
                        "name": "patientID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/patients.profileResponse"
                        }
                    },
                    "400": {
                        "description": "invalid id",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "patient not found",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            },
            "patch": {
                "description": "Agrega una entrada fechada al inicio del historial. ` + "`" + `record` + "`" + ` es obligatorio; estado de salud, PWD y LMP solo cambian si vienen en el cuerpo.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "patients"
                ],
                "summary": "Actualizar residente",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "ID del residente",
                        "name": "patientID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Entrada de historial y nuevos valores",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/patients.updatePatientRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/patients.profileResponse"
                        }
                    },
                    "400": {
                        "description": "invalid json / validación",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "patient not found",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/patients.confirmationResponse"
                        }
                    }
                }
            }
        },
        "/registry/export.csv": {
            "get": {
                "description": "Descarga el registro completo con columnas ID, Name, Birthday, LMP, Sitio, Health_Status, Records, PWD_Type. El historial va en una celda unido con ';'.",
                "produces": [
                    "text/csv"
                ],
                "tags": [
                    "registry"
                ],
                "summary": "Exportar registro (CSV)",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/registry/import": {
            "post": {
                "description": "Reemplaza el registro completo con el CSV del cuerpo. Si el archivo no se puede leer el registro queda vacío y se responde 400.",
                "consumes": [
                    "text/csv"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "registry"
                ],
                "summary": "Cargar registro (CSV)",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/patients.importResponse"
                        }
                    },
                    "400": {
                        "description": "registry file could not be parsed",
                        "schema": {
                            "type": "string"
                        }
                    }
                }
            }
        },
        "/reports/summary": {
            "get": {
                "description": "Totales (residentes, seniors, embarazos activos, PWD), residentes por sitio y desglose de enfermedades (sin NORMAL) y categorías PWD con porcentaje sobre el total.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Resumen del registro",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/reports.summaryResponse"
                        }
                    }
                }
            }
        },
        "/reports/export.xlsx": {
            "get": {
                "description": "Libro con hojas Residents, Pregnant y Summary.",
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "tags": [
                    "reports"
                ],
                "summary": "Exportar a Excel",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/rosters/seniors": {
            "get": {
                "description": "Residentes de 60 años o más, en orden de registro.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "rosters"
                ],
                "summary": "Lista de senior citizens",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/reports.residentResponse"
                            }
                        }
                    }
                }
            }
        },
        "/rosters/pwd": {
            "get": {
                "description": "Residentes con categoría de discapacidad distinta de NOT PWD.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "rosters"
                ],
                "summary": "Lista de PWD",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/reports.residentResponse"
                            }
                        }
                    }
                }
            }
        },
        "/rosters/pregnant": {
            "get": {
                "description": "Embarazos activos con FPP y próximo control prenatal.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "rosters"
                ],
                "summary": "Calendario de embarazadas",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/reports.pregnantResponse"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "patients.createPatientRequest": {
            "type": "object",
            "properties": {
                "birthday": {
                    "type": "string"
                },
                "conditions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "lmp": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "pwd_type": {
                    "type": "string"
                },
                "recent_lmp": {
                    "type": "string",
                    "enum": [
                        "clear",
                        "abort"
                    ]
                },
                "sitio": {
                    "type": "string"
                }
            }
        },
        "patients.updatePatientRequest": {
            "type": "object",
            "properties": {
                "health_status": {
                    "type": "string"
                },
                "lmp": {
                    "type": "string"
                },
                "pwd_type": {
                    "type": "string"
                },
                "recent_lmp": {
                    "type": "string",
                    "enum": [
                        "clear",
                        "abort"
                    ]
                },
                "record": {
                    "type": "string"
                }
            }
        },
        "patients.patientResponse": {
            "type": "object",
            "properties": {
                "age": {
                    "type": "integer"
                },
                "birthday": {
                    "type": "string"
                },
                "due_date_or_status": {
                    "type": "string"
                },
                "health_status": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "lmp": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "pwd_type": {
                    "type": "string"
                },
                "records": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "sitio": {
                    "type": "string"
                }
            }
        },
        "patients.visitResponse": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string"
                },
                "kind": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "upcoming": {
                    "type": "boolean"
                },
                "week": {
                    "type": "integer"
                }
            }
        },
        "patients.pregnancyResponse": {
            "type": "object",
            "properties": {
                "due_date": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "upcoming_visits": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/patients.visitResponse"
                    }
                }
            }
        },
        "patients.profileResponse": {
            "type": "object",
            "properties": {
                "age": {
                    "type": "integer"
                },
                "birthday": {
                    "type": "string"
                },
                "due_date_or_status": {
                    "type": "string"
                },
                "health_status": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "lmp": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "pregnancy": {
                    "$ref": "#/definitions/patients.pregnancyResponse"
                },
                "pwd_type": {
                    "type": "string"
                },
                "records": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "sitio": {
                    "type": "string"
                }
            }
        },
        "patients.confirmationResponse": {
            "type": "object",
            "properties": {
                "candidate": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "field": {
                    "type": "string"
                },
                "hint": {
                    "type": "string"
                }
            }
        },
        "patients.importResponse": {
            "type": "object",
            "properties": {
                "next_id": {
                    "type": "integer"
                },
                "patients": {
                    "type": "integer"
                }
            }
        },
        "reports.sitioCountResponse": {
            "type": "object",
            "properties": {
                "count": {
                    "type": "integer"
                },
                "sitio": {
                    "type": "string"
                }
            }
        },
        "reports.shareResponse": {
            "type": "object",
            "properties": {
                "count": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "percent": {
                    "type": "number"
                }
            }
        },
        "reports.summaryResponse": {
            "type": "object",
            "properties": {
                "active_pregnancies": {
                    "type": "integer"
                },
                "by_sitio": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/reports.sitioCountResponse"
                    }
                },
                "generated_at": {
                    "type": "string"
                },
                "illnesses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/reports.shareResponse"
                    }
                },
                "pwd": {
                    "type": "integer"
                },
                "pwd_categories": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/reports.shareResponse"
                    }
                },
                "seniors": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                },
                "undefined_sitio": {
                    "type": "integer"
                }
            }
        },
        "reports.residentResponse": {
            "type": "object",
            "properties": {
                "age": {
                    "type": "integer"
                },
                "due_date_or_status": {
                    "type": "string"
                },
                "health_status": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "lmp": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "pwd_type": {
                    "type": "string"
                },
                "sitio": {
                    "type": "string"
                }
            }
        },
        "reports.pregnantResponse": {
            "type": "object",
            "properties": {
                "due_date": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "lmp": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "next_checkup": {
                    "type": "string"
                },
                "sitio": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "BHW Patient Registry API",
	Description:      "Registro de residentes del barangay: altas, historial, embarazos, listas y reportes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
