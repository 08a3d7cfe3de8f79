package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// compileProgram compiles vertex and fragment shaders and links them into a
// program.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log[:logLen]))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log[:logLen]))
	}
	return shader, nil
}

// uniforms holds the locations looked up once after linking. Inactive
// uniforms report -1, which gl.Uniform* ignores.
type uniforms struct {
	projection, view, model, normalMatrix int32

	time, warp, warpAmplitudes, warpFrequency, warpSpeed int32

	texture, texture2, useTexture2 int32

	ambient, diffuse, color, lighting, vertexColor int32

	lightCount, lightVector, lightColor, lightRange, lightType int32
}

func location(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func lookupUniforms(program uint32) uniforms {
	return uniforms{
		projection:     location(program, "uProjection"),
		view:           location(program, "uView"),
		model:          location(program, "uModel"),
		normalMatrix:   location(program, "uNormalMatrix"),
		time:           location(program, "uTime"),
		warp:           location(program, "uWarp"),
		warpAmplitudes: location(program, "uWarpAmplitudes"),
		warpFrequency:  location(program, "uWarpFrequency"),
		warpSpeed:      location(program, "uWarpSpeed"),
		texture:        location(program, "uTexture"),
		texture2:       location(program, "uTexture2"),
		useTexture2:    location(program, "uUseTexture2"),
		ambient:        location(program, "uAmbient"),
		diffuse:        location(program, "uDiffuse"),
		color:          location(program, "uColor"),
		lighting:       location(program, "uLighting"),
		vertexColor:    location(program, "uVertexColor"),
		lightCount:     location(program, "uLightCount"),
		lightVector:    location(program, "uLightVector"),
		lightColor:     location(program, "uLightColor"),
		lightRange:     location(program, "uLightRange"),
		lightType:      location(program, "uLightType"),
	}
}
